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

package popup

import (
	"context"
	"html"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wso2/tracker-consent-service/internal/blocker/model"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

const serverCallTimeout = 10 * time.Second

// State is the popup decision state.
type State int

const (
	Undecided State = iota
	Showing
	Deciding
	DecidedAccepted
	DecidedRejected
)

func (s State) String() string {
	switch s {
	case Showing:
		return "showing"
	case Deciding:
		return "deciding"
	case DecidedAccepted:
		return "accepted"
	case DecidedRejected:
		return "rejected"
	default:
		return "undecided"
	}
}

// Controller runs the consent popup for one page view.
type Controller struct {
	mu        sync.Mutex
	payload   *model.ConsentDecisionPayload
	doc       Document
	store     *DecisionStore
	api       ConsentAPI
	state     State
	accepting bool
	calls     sync.WaitGroup
}

// NewController returns a controller for payload. api may be nil for anonymous visitors.
func NewController(payload *model.ConsentDecisionPayload, doc Document, store *DecisionStore, api ConsentAPI) *Controller {
	return &Controller{payload: payload, doc: doc, store: store, api: api}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HasConsented reports whether the visitor accepted within the consent duration.
func (c *Controller) HasConsented() bool {
	return c.store.HasStoredDecision(c.payload.AcceptKey, c.payload.DurationDays)
}

// HasRejected reports whether the visitor rejected within the consent duration.
func (c *Controller) HasRejected() bool {
	return c.store.HasStoredDecision(c.payload.RejectKey, c.payload.DurationDays)
}

// Init applies a stored decision, or shows the popup when there is none.
func (c *Controller) Init() {

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.HasConsented():
		c.accepting = true
		c.loadTrackers()
		c.replayDeferred()
		c.doc.ShowAffordance()
		c.state = DecidedAccepted
	case c.HasRejected():
		c.doc.ShowAffordance()
		c.state = DecidedRejected
	default:
		c.show()
	}
}

// Accept stores consent and loads the trackers. Calls while an acceptance is in flight, or with no
// popup on the page, do nothing.
func (c *Controller) Accept() {

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accepting || !c.doc.PopupVisible() {
		return
	}
	c.accepting = true
	c.state = Deciding

	c.store.StoreDecision(c.payload.AcceptKey, c.payload.DurationDays)
	c.report(c.payload.AcceptAction, c.payload.Nonce)
	c.loadTrackers()
	c.replayDeferred()

	c.doc.DismissPopup()
	c.doc.ShowAffordance()
	c.state = DecidedAccepted
}

// Reject stores the rejection. It loads nothing and is safe to call with no popup on the page.
func (c *Controller) Reject() {

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = Deciding
	c.store.StoreDecision(c.payload.RejectKey, c.payload.DurationDays)
	c.report(c.payload.RejectAction, c.payload.RejectNonce)

	if c.doc.PopupVisible() {
		c.doc.DismissPopup()
	}
	c.doc.ShowAffordance()
	c.state = DecidedRejected
}

// ManagePreferences forgets the stored decision and shows the popup again.
func (c *Controller) ManagePreferences() {

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.ClearDecision(c.payload.AcceptKey)
	c.store.ClearDecision(c.payload.RejectKey)
	c.accepting = false
	if c.doc.PopupVisible() {
		c.doc.DismissPopup()
	}
	c.show()
}

// ToggleInfo opens or closes the overlay listing the captured trackers.
func (c *Controller) ToggleInfo() {

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doc.InfoVisible() {
		c.doc.CloseInfo()
		return
	}
	c.doc.ShowInfo(c.infoHTML())
}

// Wait blocks until every server call made so far has finished.
func (c *Controller) Wait() {
	c.calls.Wait()
}

func (c *Controller) show() {

	c.doc.ShowPopup(PopupView{
		Message:    c.payload.Message,
		AcceptText: c.payload.AcceptText,
		RejectText: c.payload.RejectText,
		InfoText:   c.payload.InfoText,
		Classes:    c.payload.Classes,
	})
	c.state = Showing
}

// report sends the decision in the background. Anonymous visitors carry no endpoint.
func (c *Controller) report(action, nonce string) {

	if c.api == nil || c.payload.AjaxURL == "" || action == "" || nonce == "" {
		return
	}
	endpoint := c.payload.AjaxURL
	c.calls.Add(1)
	go func() {
		defer c.calls.Done()
		ctx, cancel := context.WithTimeout(context.Background(), serverCallTimeout)
		defer cancel()
		if err := c.api.Send(ctx, endpoint, action, nonce); err != nil {
			log.GetLogger().Warn("Failed to report the consent decision", log.String("action", action), log.Error(err))
		}
	}()
}

// loadTrackers emits each tracker's consent signal, then inserts its SDK unless the page has it.
func (c *Controller) loadTrackers() {

	for _, load := range trackerLoads(c.payload) {
		if load.signal != "" {
			c.doc.CallSignal(load.handle, load.signal)
		}
		if !c.doc.HasScript(load.sdkURL) {
			c.doc.InsertScript(Script{Handle: load.handle, Src: load.sdkURL})
		}
	}
}

// replayDeferred inserts the withheld scripts. Only deferable entries were withheld, and only when
// blocking was on.
func (c *Controller) replayDeferred() {

	if c.payload.BlockOn != 1 {
		return
	}
	for _, handle := range c.metaHandles() {
		meta := c.payload.Meta[handle]
		if !meta.CanDefer {
			continue
		}
		if meta.Src != "" && !c.doc.HasScript(meta.Src) {
			c.doc.InsertScript(Script{Handle: handle, Src: meta.Src})
		}
		if meta.After != "" {
			c.doc.InsertScript(Script{Handle: handle, Inline: meta.After})
		}
	}
}

func (c *Controller) infoHTML() string {

	handles := c.metaHandles()
	if len(handles) == 0 {
		return "<p>" + c.payload.Info2 + "</p>"
	}

	var b strings.Builder
	b.WriteString("<p>" + c.payload.Info1)
	if c.payload.Info3 != "" {
		b.WriteString("<br />" + c.payload.Info3)
	}
	b.WriteString(`</p><div class="plglst"><ul>`)
	for _, handle := range handles {
		b.WriteString("<li>" + html.EscapeString(c.payload.Meta[handle].Description) + "</li>")
	}
	b.WriteString("</ul></div>")
	return b.String()
}

func (c *Controller) metaHandles() []string {
	handles := make([]string, 0, len(c.payload.Meta))
	for handle := range c.payload.Meta {
		handles = append(handles, handle)
	}
	sort.Strings(handles)
	return handles
}
