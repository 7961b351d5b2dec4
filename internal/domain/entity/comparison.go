package entity

// DeviceReport taqqoslashdagi bitta tomon
type DeviceReport struct {
	Input string       `json:"input"`
	Entry CatalogEntry `json:"entry"`
	Score int          `json:"score"`
	Link  string       `json:"link"`
}

// ComparisonPayload ikki qurilmani yonma-yon taqqoslash ma'lumoti
type ComparisonPayload struct {
	First  DeviceReport `json:"first"`
	Second DeviceReport `json:"second"`
}
