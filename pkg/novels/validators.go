package novels

type ListNovelsQuery struct {
	Limit    int     `query:"limit" json:"limit,omitempty" validate:"min=0,max=500"`
	Offset   int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Source   *string `query:"source" json:"source,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Language *string `query:"language" json:"language,omitempty" mod:"trim" validate:"omitempty,max=50"`
	Search   *string `query:"search" json:"search,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Genre    *string `query:"genre" json:"genre,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Status   *string `query:"status" json:"status,omitempty" mod:"trim" validate:"omitempty,novelstatus"`
	Sort     *string `query:"sort" json:"sort,omitempty" mod:"trim" validate:"omitempty,oneof=title recently_updated"`
}
