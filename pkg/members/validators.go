package members

type RegisterMemberPayload struct {
	Name  string `json:"name" mod:"trim" validate:"required,max=300"`
	Email string `json:"email" mod:"trim" validate:"required,max=320"`
}

type ListMembersQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=500"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type UpdateMemberPayload struct {
	Email string `json:"email" mod:"trim" validate:"required,max=320"`
}
