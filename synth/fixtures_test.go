package synth

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/wippyai/sigbind/catalog"
	"github.com/wippyai/sigbind/config"
)

type account struct {
	Owner   string
	Limit   int64
	balance int64
}

func (a *account) Balance() int64     { return a.balance }
func (a *account) SetBalance(v int64) { a.balance = v }
func (a *account) GetLabel() string   { return strings.ToUpper(a.Owner) }

func (a *account) Deposit(n int64) error {
	if n < 0 {
		return fmt.Errorf("negative deposit %d", n)
	}
	a.balance += n
	return nil
}

func (a *account) Add(n int64) int64 {
	a.balance += n
	return a.balance
}

func (a *account) Explode() int64 { panic("boom") }

func newAccount(owner string, limit int64) *account {
	return &account{Owner: owner, Limit: limit}
}

type money struct{ cents int64 }

func addMoney(a, b money) money { return money{a.cents + b.cents} }

type celsius float64
type fahrenheit float64

func toFahrenheit(c celsius) fahrenheit { return fahrenheit(c*9/5 + 32) }

var (
	accountT = reflect.TypeFor[account]()
	moneyT   = reflect.TypeFor[money]()
	intT     = reflect.TypeFor[int]()
	int8T    = reflect.TypeFor[int8]()
	uint8T   = reflect.TypeFor[uint8]()
	int32T   = reflect.TypeFor[int32]()
	int64T   = reflect.TypeFor[int64]()
	float32T = reflect.TypeFor[float32]()
	float64T = reflect.TypeFor[float64]()
	stringT  = reflect.TypeFor[string]()
	anyT     = reflect.TypeFor[any]()
)

func newTestCache(t interface{ Fatalf(string, ...any) }) *Cache {
	cat := catalog.New()
	if err := cat.RegisterConstructor(accountT, newAccount); err != nil {
		t.Fatalf("RegisterConstructor: %v", err)
	}
	if err := cat.RegisterOperator(catalog.OpAdd, addMoney); err != nil {
		t.Fatalf("RegisterOperator: %v", err)
	}
	if err := cat.RegisterConversion(toFahrenheit); err != nil {
		t.Fatalf("RegisterConversion: %v", err)
	}
	return New(cat, config.DefaultOptions())
}

func method(c *Cache, name string) *catalog.Member {
	ms := c.Catalog().Methods(accountT, name)
	if len(ms) == 0 {
		return nil
	}
	return ms[0]
}
