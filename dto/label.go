package dto

type Label struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Type *string `json:"label_type"`
}

type BatchModifyRequest struct {
	IDs            []string `json:"ids"`
	AddLabelIDs    []string `json:"add_label_ids,omitempty"`
	RemoveLabelIDs []string `json:"remove_label_ids,omitempty"`
}

type Profile struct {
	Email string  `json:"email"`
	Name  *string `json:"name"`
}
