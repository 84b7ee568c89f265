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

import "fmt"

// ErrorMessage is the coded error body returned by the consent, gate and settings endpoints.
// Codes carry the TCS- prefix.
type ErrorMessage struct {
	Code        string `json:"error_code"`
	Message     string `json:"error_message"`
	Description string `json:"error_description"`
	TraceID     string `json:"trace_id,omitempty"`
}

// WithDescription copies the message and sets its description.
func (m ErrorMessage) WithDescription(description string) ErrorMessage {
	m.Description = description
	return m
}

// ClientError is a request the caller can correct. StatusCode is the HTTP status to answer with.
type ClientError struct {
	ErrorMessage
	StatusCode int
}

func NewClientError(msg ErrorMessage, code int) *ClientError {
	return &ClientError{ErrorMessage: msg, StatusCode: code}
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// ServerError wraps a store, lock or limiter failure. Handlers answer it with a 500.
type ServerError struct {
	ErrorMessage
	Err error
}

func NewServerError(msg ErrorMessage, cause error) *ServerError {
	return &ServerError{ErrorMessage: msg, Err: cause}
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}
