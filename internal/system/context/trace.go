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

package context

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/wso2/tracker-consent-service/internal/system/constants"
)

// GetTraceID returns the request's trace id, or "" outside TraceMiddleware.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(constants.TraceIDContextKey).(string)
	return traceID
}

// TraceMiddleware tags every request with a trace id. An X-Trace-Id sent by the host page renderer
// is kept so gate evaluations and consent writes can be correlated with the page view. The id is
// echoed in the response and in error bodies.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(constants.TraceIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}
		w.Header().Set(constants.TraceIDHeader, traceID)
		ctx := context.WithValue(r.Context(), constants.TraceIDContextKey, traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
