package models

// MetaParam is a generic key/value metadata entry attached to a lead.
type MetaParam struct {
	MetaKey   string `json:"meta_key"`
	MetaValue string `json:"meta_value"`
}

// LeadPayload is the fixed lead schema of the downstream CRM intake API.
// Otherparams carries every booking-form answer that does not map onto a
// first-class field, followed by fixed event metadata.
type LeadPayload struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Mobile      string      `json:"mobile"`
	City        string      `json:"city"`
	Address     string      `json:"address"`
	UsergroupID string      `json:"usergroupid"`
	SegmentID   string      `json:"segmentid"`
	Otherparams []MetaParam `json:"otherparams"`
}
