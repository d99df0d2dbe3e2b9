package services

import (
	"github.com/custodia-labs/fresq/internal/core/domain"
)

// row builds a raw record for program inf at establishment uai.
// Extra payload fields are given as key/value pairs.
func row(inf, uai string, kv ...any) domain.RawRecord {
	data := map[string]any{}
	if inf != "" {
		data[domain.FieldNaturalID] = inf
	}
	if uai != "" {
		data[domain.FieldEstablishmentCode] = uai
	}
	for i := 0; i+1 < len(kv); i += 2 {
		data[kv[i].(string)] = kv[i+1]
	}
	return domain.RawRecord{RecordID: "rec-" + inf + "-" + uai, Data: data}
}

func faultReasons(log *FaultLog) []string {
	var out []string
	for _, f := range log.Faults() {
		out = append(out, f.Reason)
	}
	return out
}
