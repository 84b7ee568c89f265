/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package model

import (
	"time"
)

// EarliestValidYear is the first year a stored consent timestamp is trusted for.
const EarliestValidYear = 2017

// TimestampLayout is the layout consent timestamps are stored with. Values are always UTC.
const TimestampLayout = "2006-01-02 15:04:05 MST"

// ConsentRecord is the durable consent state of one account.
type ConsentRecord struct {
	SubjectID            string `json:"subjectId" bson:"_id"`
	AcceptedAtFirst      string `json:"acceptedAtFirst,omitempty" bson:"accepted_first,omitempty"`
	AcceptedAtMostRecent string `json:"acceptedAtMostRecent,omitempty" bson:"accepted_recent,omitempty"`
	RejectedAt           string `json:"rejectedAt,omitempty" bson:"rejected_at,omitempty"`
}

// ConsentStats counts accounts by their recorded decision.
type ConsentStats struct {
	Accepted  int64 `json:"accepted"`
	Rejected  int64 `json:"rejected"`
	Decided   int64 `json:"decided"`
	Total     int64 `json:"total,omitempty"`
	Undecided int64 `json:"undecided,omitempty"`
}

// Count adds record to the stats. A timestamp that ParseTimestamp reports as absent is not a
// decision, so the counts agree with HasAccepted and HasRejected.
func (s *ConsentStats) Count(record ConsentRecord) {

	_, accepted := ParseTimestamp(record.AcceptedAtMostRecent)
	_, rejected := ParseTimestamp(record.RejectedAt)
	if accepted {
		s.Accepted++
	}
	if rejected {
		s.Rejected++
	}
	if accepted || rejected {
		s.Decided++
	}
}

// ThankYouMessage is returned after a successful acceptance.
const ThankYouMessage = "Thanks. That's the official GDPR stuff sorted."

// ConsentResponse is the envelope returned by the consent write endpoints.
type ConsentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ConsentStatusAPI describes the caller's own durable consent state.
type ConsentStatusAPI struct {
	SubjectID     string `json:"subjectId"`
	HasAccepted   bool   `json:"hasAccepted"`
	WhenAccepted  string `json:"whenAccepted,omitempty"`
	FirstAccepted string `json:"firstAccepted,omitempty"`
	HasRejected   bool   `json:"hasRejected"`
	WhenRejected  string `json:"whenRejected,omitempty"`
}

// FormatTimestamp renders t in the storage layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp reads a stored timestamp. Empty, unparseable and pre-EarliestValidYear values
// are reported as absent.
func ParseTimestamp(raw string) (time.Time, bool) {

	if raw == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(TimestampLayout, raw)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, false
		}
	}
	if parsed.Year() < EarliestValidYear {
		return time.Time{}, false
	}
	return parsed, true
}
