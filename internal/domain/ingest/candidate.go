package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"leadengage/internal/domain/fieldconfig"
)

// protectedKeys are system columns a payload can never set.
var protectedKeys = map[string]struct{}{
	"id":             {},
	"tenant_id":      {},
	"status_history": {},
	"dedup_key":      {},
	"created_at":     {},
	"updated_at":     {},
}

const (
	fieldStatus       = "status"
	fieldCampaign     = "campaign"
	fieldCampaignName = "campaign_name"
	fieldCampaignID   = "campaign_id"
)

// Candidate is a submitted record on its way through the pipeline.
type Candidate struct {
	Fields map[string]any

	Status       string
	CampaignName string
	CampaignRef  string
	CampaignID   *uuid.UUID

	Key string
}

// newCandidate normalizes field names, trims string values and strips protected
// keys. Status and campaign references are lifted out of Fields.
func newCandidate(r Record) Candidate {
	fields := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		name := fieldconfig.NormalizeName(k)
		if name == "" {
			continue
		}
		if _, ok := protectedKeys[name]; ok {
			continue
		}
		if s, ok := v.(string); ok {
			v = strings.TrimSpace(s)
		}
		fields[name] = v
	}

	c := Candidate{Fields: fields}
	c.Status = valueString(fields[fieldStatus])
	c.CampaignName = valueString(fields[fieldCampaign])
	if c.CampaignName == "" {
		c.CampaignName = valueString(fields[fieldCampaignName])
	}
	c.CampaignRef = valueString(fields[fieldCampaignID])
	for _, k := range []string{fieldStatus, fieldCampaign, fieldCampaignName, fieldCampaignID} {
		delete(fields, k)
	}
	return c
}

// missing returns the required fields r leaves blank. Status and campaign
// references count as present when given.
func missing(r Record, required []string) []string {
	present := make(map[string]struct{}, len(r.Fields))
	for k, v := range r.Fields {
		if valueString(v) != "" {
			present[fieldconfig.NormalizeName(k)] = struct{}{}
		}
	}
	var out []string
	for _, name := range required {
		if _, ok := present[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

func (c Candidate) text(field string) string {
	return valueString(c.Fields[field])
}

func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		// JSON bodies decode numbers as float64; CSV cells and stored rows carry digits.
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
