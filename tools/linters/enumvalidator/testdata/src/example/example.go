package example

type Team string

const (
	TeamSales  Team = "sales"
	TeamCredit Team = "credit"
)

type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusDeferred ItemStatus = "deferred"
)

// Label has no constants, so it is not an enum.
type Label string

type QueryItem struct {
	Status       ItemStatus
	ResolvedTeam Team
	Label        Label
	Text         string
}

func bad() {
	item := &QueryItem{}
	item.Status = "approved"    // want "enum field Status assigned string literal"
	item.ResolvedTeam = "legal" // want "enum field ResolvedTeam assigned string literal"

	_ = QueryItem{Status: "otc"} // want "enum field Status assigned string literal"
}

func good() {
	item := &QueryItem{}
	item.Status = ItemStatusDeferred
	item.ResolvedTeam = TeamCredit
	item.Label = "urgent"
	item.Text = "Missing KYC doc"
}

func alsoGood(raw string) {
	team := TeamSales
	item := QueryItem{ResolvedTeam: team, Status: ItemStatus(raw)}
	_ = item
}
