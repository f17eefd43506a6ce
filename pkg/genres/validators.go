package genres

type ListGenresQuery struct {
	Source *string `query:"source" json:"source,omitempty" mod:"trim" validate:"omitempty,max=100"`
}
