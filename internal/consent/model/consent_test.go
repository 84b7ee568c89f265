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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestamp(t *testing.T) {

	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{name: "stored layout", raw: "2024-05-01 10:00:00 UTC", valid: true},
		{name: "rfc3339", raw: "2023-01-02T03:04:05Z", valid: true},
		{name: "empty", raw: "", valid: false},
		{name: "garbage", raw: "yesterday", valid: false},
		{name: "before earliest year", raw: "2016-12-31 23:59:59 UTC", valid: false},
		{name: "earliest year", raw: "2017-01-01 00:00:00 UTC", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseTimestamp(tt.raw)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestConsentStats_CountSkipsInvalidTimestamps(t *testing.T) {

	stats := &ConsentStats{}
	stats.Count(ConsentRecord{AcceptedAtMostRecent: "2024-05-01 10:00:00 UTC"})
	stats.Count(ConsentRecord{AcceptedAtMostRecent: "2016-05-01 10:00:00 UTC", RejectedAt: "2024-05-02 10:00:00 UTC"})
	stats.Count(ConsentRecord{AcceptedAtMostRecent: "soon"})
	stats.Count(ConsentRecord{RejectedAt: "2010-01-01 00:00:00 UTC"})

	assert.Equal(t, int64(1), stats.Accepted)
	assert.Equal(t, int64(1), stats.Rejected)
	assert.Equal(t, int64(2), stats.Decided)
}

func TestFormatTimestamp_RoundTrips(t *testing.T) {

	when := time.Date(2025, 3, 4, 5, 6, 7, 0, time.FixedZone("CET", 3600))
	formatted := FormatTimestamp(when)
	assert.Equal(t, "2025-03-04 04:06:07 UTC", formatted)

	parsed, ok := ParseTimestamp(formatted)
	assert.True(t, ok)
	assert.True(t, parsed.Equal(when))
}
