package entity

// AdvisorCriteria market advisor input
type AdvisorCriteria struct {
	DeviceType DeviceType `json:"deviceType"`
	PriceRange string     `json:"priceRange"` // one of constants.AdvisorPriceRanges
	Priorities string     `json:"priorities"`
}

// GroundingSource search citation
type GroundingSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// AdvisorResult recommendation of an existing market device. Not customizable.
type AdvisorResult struct {
	DeviceName          string            `json:"deviceName"`
	Company             string            `json:"company"`
	Description         string            `json:"description"`
	ApproximatePriceUSD float64           `json:"approximatePriceUSD"` // absolute price, not a delta
	KeySpecs            []string          `json:"keySpecs"`
	Pros                []string          `json:"pros"`
	Cons                []string          `json:"cons"`
	Reasoning           string            `json:"reasoning"`
	ImageURL            string            `json:"imageUrl,omitempty"`
	GroundingSources    []GroundingSource `json:"groundingSources,omitempty"`
}

// ImageRequest subject of a product render. Exactly one of Configuration/Advisor is set.
type ImageRequest struct {
	Configuration *CustomConfiguration
	Advisor       *AdvisorResult
	DeviceType    DeviceType
}

// IsAdvisor advisor renders use a plain studio shot prompt
func (r ImageRequest) IsAdvisor() bool {
	return r.Advisor != nil
}

// User simulated identity
type User struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
