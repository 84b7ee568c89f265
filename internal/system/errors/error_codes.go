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

package errors

const errorPrefix = "TCS-"

var (
	// Server error codes

	GET_CONSENT_RECORD = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Error while fetching the consent record.",
	}

	ACCEPT_CONSENT = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while recording consent acceptance.",
	}

	REJECT_CONSENT = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while recording consent rejection.",
	}

	CLEAR_CONSENT = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while clearing the consent record.",
	}

	RESET_CONSENTS = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while resetting consent records.",
	}

	GET_CONSENT_STATS = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while computing consent statistics.",
	}

	GET_SETTINGS = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while fetching settings.",
	}

	UPDATE_SETTINGS = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while updating settings.",
	}

	INSTALL_CONSENT_CHECKBOX = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while installing the consent checkbox.",
	}

	ISSUE_NONCE = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while issuing an action nonce.",
	}

	RATE_LIMIT_CHECK = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while checking the request rate limit.",
	}

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while initializing the database client.",
	}

	LOCK_KEY_GEN = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Error while generating the lock key.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Error while acquiring the lock.",
	}

	LOCK_RELEASE = ErrorMessage{
		Code:    errorPrefix + "15015",
		Message: "Error while releasing the lock.",
	}

	LOCK_RESULT_INVALID = ErrorMessage{
		Code:    errorPrefix + "15016",
		Message: "Invalid result returned for the lock query.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Bad request.",
	}

	INVALID_NONCE = ErrorMessage{
		Code:    errorPrefix + "11002",
		Message: "Invalid nonce.",
	}

	CONSENT_NOT_PROVIDED = ErrorMessage{
		Code:    errorPrefix + "11003",
		Message: "Consent was not provided.",
	}

	RATE_LIMITED = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "Too many requests.",
	}

	RESET_IN_PROGRESS = ErrorMessage{
		Code:    errorPrefix + "11005",
		Message: "A consent reset is already in progress.",
	}

	FORM_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11006",
		Message: "Form not found.",
	}

	INVALID_SETTING = ErrorMessage{
		Code:    errorPrefix + "11007",
		Message: "Invalid setting.",
	}

	UPDATE_SETTINGS_BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11008",
		Message: "Invalid request payload to update settings.",
	}

	EVALUATE_BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11009",
		Message: "Invalid script manifest.",
	}

	INVALID_TRACKER = ErrorMessage{
		Code:    errorPrefix + "11010",
		Message: "Invalid tracker registration.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "11401",
		Message:     "Unauthorized",
		Description: "You are not authorized to perform this operation.",
	}

	FORBIDDEN = ErrorMessage{
		Code:        errorPrefix + "11403",
		Message:     "Forbidden",
		Description: "You do not have permission to perform this operation.",
	}
)
