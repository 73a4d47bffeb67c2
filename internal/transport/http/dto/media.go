package dto

import "blogdesk/internal/domain/models"

type ListMediaRequest struct {
	Folder            string `query:"folder" validate:"omitempty,oneof=images videos files"`
	Limit             int    `query:"limit" validate:"omitempty,min=1,max=1000"`
	ContinuationToken string `query:"continuation_token"`
}

func (r ListMediaRequest) Options() models.ListOptions {
	return models.ListOptions{
		Folder:            r.Folder,
		Limit:             r.Limit,
		ContinuationToken: r.ContinuationToken,
	}
}
