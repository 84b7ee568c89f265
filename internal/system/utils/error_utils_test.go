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

package utils

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type manifest struct {
	Scripts []string `json:"scripts"`
}

func decode(body string) error {
	decoder := json.NewDecoder(strings.NewReader(body))
	decoder.DisallowUnknownFields()
	var m manifest
	return decoder.Decode(&m)
}

func TestHandleDecodeError(t *testing.T) {

	assert.Equal(t, "", HandleDecodeError(nil, "script manifest"))
	assert.Equal(t, "Request body for script manifest is empty.", HandleDecodeError(decode(""), "script manifest"))
	assert.Equal(t, `Unknown field "extra" in script manifest request body.`,
		HandleDecodeError(decode(`{"extra":1}`), "script manifest"))
	assert.Equal(t, "Malformed JSON in script manifest request body.", HandleDecodeError(decode(`{"scripts":`+"}"), "script manifest"))
	assert.Equal(t, "Invalid type for field 'scripts' in script manifest request body.",
		HandleDecodeError(decode(`{"scripts":"x"}`), "script manifest"))
	assert.Equal(t, "Request body for script manifest must be a JSON object.",
		HandleDecodeError(decode(`[]`), "script manifest"))
}
