// Package sigbind resolves member signatures against search specs and turns
// the winners into cached, invocable Go callables.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	sigbind/             Engine facade tying the packages together
//	├── typedesc/        Type descriptors, search specs and signatures
//	├── catalog/         Reflection-backed member catalog and host type queries
//	├── match/           Type and signature matching, ranking and closure
//	├── synth/           Callable synthesis and the synthesis cache
//	├── config/          Options, TOML loading and logger construction
//	└── errors/          Structured error types
//
// # Quick Start
//
// Resolve an overload and call it:
//
//	eng := sigbind.New(config.DefaultOptions())
//	eng.Catalog().Register(reflect.TypeFor[Account]())
//
//	deposit, err := eng.Resolve(reflect.TypeFor[Account](), "Deposit",
//	    typedesc.SpecsOf(nil, reflect.TypeFor[*Account](), reflect.TypeFor[int]()),
//	    0, false, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_, err = deposit(acct, 100)
//
// # Generic Slots
//
// Signatures may contain generic parameters declared on the enclosing type
// (type-local) or on the member itself (signature-local). Matching binds
// them from the search specs; ranking prefers candidates needing fewer
// type-local closures, then fewer signature-local closures, then fewer casts.
// Ties go to the earliest candidate in catalog order.
//
// # Operators and Conversions
//
// The cache synthesizes binary operators and chained conversions:
//
//	add, _ := eng.Cache().AddFunc(reflect.TypeFor[int8]())
//	sum, _ := add(int8(100), int8(27)) // int8(127)
//
//	conv, ok := eng.Cache().Conversion(reflect.TypeFor[int64](), reflect.TypeFor[int8]())
//
// Numeric conversion links are range checked; operators wrap like Go
// arithmetic.
package sigbind
