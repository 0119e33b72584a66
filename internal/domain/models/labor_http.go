package models

// Requests for analytics HTTP endpoints. Defined in domain for consistency and reuse.

type MetricsRequest struct {
	Freq string `query:"freq" json:"freq" default:"monthly" validate:"oneof=annual monthly"`
	N    int    `query:"n" json:"n" default:"240" validate:"gte=2,lte=5000"`
}

type ForecastRequest struct {
	Entity   string `query:"entity" json:"entity" validate:"required"`
	Measure  string `query:"measure" json:"measure" default:"hires" validate:"oneof=employment openings hires separations"`
	Horizon  int    `query:"h" json:"h" default:"12" validate:"gte=1,lte=120"`
	Freq     string `query:"freq" json:"freq" default:"monthly" validate:"oneof=annual monthly"`
	N        int    `query:"n" json:"n" default:"240" validate:"gte=2,lte=5000"`
	Fallback bool   `query:"fallback" json:"fallback"`
}

type AdvisoriesRequest struct {
	Freq string `query:"freq" json:"freq" default:"monthly" validate:"oneof=annual monthly"`
	N    int    `query:"n" json:"n" default:"240" validate:"gte=2,lte=5000"`
}

type SeriesRequest struct {
	Entity string `query:"entity" json:"entity" validate:"required"`
	Freq   string `query:"freq" json:"freq" default:"monthly" validate:"oneof=annual monthly"`
	N      int    `query:"n" json:"n" default:"240" validate:"gte=1,lte=5000"`
}
