package sources

type ListSourcesQuery struct {
	Language *string `query:"language" json:"language,omitempty" mod:"trim" validate:"omitempty,oneof=Chinese Japanese Korean Other"`
}
