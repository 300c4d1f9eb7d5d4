package ingest

import "github.com/storelens/pos-insight-be/internal/core/apperrors"

// Canonical column names shared by all register profiles. Raw exports from
// Korean register software label their columns in Korean; normalization
// reconciles every layout onto these.
const (
	colTimestamp = "매출 일시" // sale timestamp
	colItem      = "상품 명칭" // item name
	colUnitPrice = "단가"    // unit price
	colQuantity  = "수량"    // quantity
	colCost      = "원가"    // cost
	colRevenue   = "매출"    // revenue
	colCustomers = "고객수"   // customer count, optional
)

// revenueCandidates are reconciled into the single canonical revenue column,
// first match wins.
var revenueCandidates = []string{colRevenue, "총매출", "실매출"}

// CoalesceRule maps one logical attribute onto the scattered raw columns that
// carry it. Candidate columns are discovered by value token: multi-row
// headers leak the attribute label into the column data, which is the only
// reliable marker left after the header rows collapse.
type CoalesceRule struct {
	Name  string
	Token string
}

// ColumnRename selects a raw column and gives it its canonical name
type ColumnRename struct {
	From string
	To   string
}

// RevenueRule derives revenue as quantity times unit price for registers
// whose exports do not carry a revenue column.
type RevenueRule struct {
	Out      string
	Quantity string
	Price    string
}

// Profile is the declarative description of one register software layout
type Profile struct {
	Name          string
	HeaderSkip    int
	Select        []ColumnRename // applied before cleaning when non-empty
	DropFirstRow  bool           // synthetic leading total row
	DeriveRevenue *RevenueRule
	Coalesce      []CoalesceRule
	MultiHeader   bool // run the multi-row-header recovery pipeline
}

// Kiwoom is the default register layout: a two-row report title above the
// header, merged receipt cells, and attribute columns scattered by the
// collapsed multi-row header.
var Kiwoom = Profile{
	Name:       "kiwoom",
	HeaderSkip: 2,
	Coalesce: []CoalesceRule{
		{Name: colUnitPrice, Token: "단가"},
		{Name: colQuantity, Token: "수량"},
		{Name: colCost, Token: "원가"},
	},
	MultiHeader: true,
}

// Toss exports carry a clean single header but no revenue column and a
// leading synthetic total row.
var Toss = Profile{
	Name:       "toss",
	HeaderSkip: 0,
	Select: []ColumnRename{
		{From: "주문시작시각", To: colTimestamp},
		{From: "상품명", To: colItem},
		{From: "수량", To: colQuantity},
		{From: "상품가격", To: colUnitPrice},
	},
	DropFirstRow: true,
	DeriveRevenue: &RevenueRule{
		Out:      colRevenue,
		Quantity: colQuantity,
		Price:    colUnitPrice,
	},
}

// ProfileFor resolves a register-type tag to its profile
func ProfileFor(registerType string) (Profile, error) {
	switch registerType {
	case "", "kiwoom":
		return Kiwoom, nil
	case "toss":
		return Toss, nil
	default:
		return Profile{}, apperrors.Validation("unknown register type %q", registerType)
	}
}
