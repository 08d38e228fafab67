package models

// Link relation names
const (
	RelSelf     = "self"
	RelNext     = "next"
	RelPrevious = "previous"
)

// Link is a navigation link for paging through results
type Link struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

// ResponseEnvelope is the body returned by the transaction listing endpoint
type ResponseEnvelope struct {
	Data  []Payment `json:"data"`
	Links []Link    `json:"links"`
}
