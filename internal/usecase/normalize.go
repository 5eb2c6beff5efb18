package usecase

import (
	"maps"
	"strings"

	"github.com/xavierca1/leadsync/internal/entity"
)

// NormalizeLead maps a submission onto the stored shape. It never fails:
// an unknown status collapses to New while the submitted value survives in
// meta_data.original_status, and location/intent/social_media are folded
// into meta_data because they are not columns.
func NormalizeLead(sub LeadSubmission) entity.Lead {
	raw := sub.Status
	if raw == "" {
		raw = string(entity.StatusNew)
	}
	status, ok := entity.ParseLeadStatus(raw)
	if !ok {
		status = entity.StatusNew
	}

	meta := make(entity.Metadata, len(sub.MetaData)+4)
	maps.Copy(meta, sub.MetaData)
	meta[entity.MetaOriginalStatus] = raw

	if sub.Location != "" {
		meta[entity.MetaLocation] = sub.Location
	}
	if sub.Intent != "" {
		meta[entity.MetaIntent] = sub.Intent
	}
	if len(sub.SocialMedia) > 0 {
		meta[entity.MetaSocialMedia] = maps.Clone(sub.SocialMedia)
	}

	return entity.Lead{
		ID:         sub.ID,
		Name:       sub.Name,
		Email:      normalizeEmail(sub.Email),
		Phone:      sub.Phone,
		Company:    sub.Company,
		Role:       sub.Role,
		Notes:      sub.Notes,
		Status:     status,
		CapturedAt: sub.CapturedAt,
		Metadata:   meta,
	}
}

// normalizeEmail trims the address and lowercases its domain. The local
// part is kept as submitted.
func normalizeEmail(raw string) string {
	email := strings.TrimSpace(raw)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
