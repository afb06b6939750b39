package campaign

import "errors"

var (
	ErrUnknownCampaign  = errors.New("unknown or inactive campaign")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrNameExists       = errors.New("campaign name already exists")
)
