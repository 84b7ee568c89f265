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

package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wso2/tracker-consent-service/internal/consent/model"
	"github.com/wso2/tracker-consent-service/internal/consent/store"
	formService "github.com/wso2/tracker-consent-service/internal/forms/service"
	settingsModel "github.com/wso2/tracker-consent-service/internal/settings/model"
	"github.com/wso2/tracker-consent-service/internal/system/constants"
	"github.com/wso2/tracker-consent-service/internal/system/database/lock"
	errors2 "github.com/wso2/tracker-consent-service/internal/system/errors"
	"github.com/wso2/tracker-consent-service/internal/system/log"
	"github.com/wso2/tracker-consent-service/internal/system/metrics"
)

// ConsentServiceInterface defines the service interface.
type ConsentServiceInterface interface {
	AcceptNow(ctx context.Context, subjectID string) error
	RejectNow(ctx context.Context, subjectID string) error
	HasAccepted(ctx context.Context, subjectID string) (bool, error)
	WhenAccepted(ctx context.Context, subjectID, layout string) (string, error)
	HasRejected(ctx context.Context, subjectID string) (bool, error)
	WhenRejected(ctx context.Context, subjectID, layout string) (string, error)
	ClearAll(ctx context.Context, subjectID string) error
	ResetAll(ctx context.Context, initiatorID string) (int, error)
	Stats(ctx context.Context, totalSubjects int64) (*model.ConsentStats, error)
	Status(ctx context.Context, subjectID string) (*model.ConsentStatusAPI, error)
	AcceptOnNewOrder(ctx context.Context, subjectID string, settings settingsModel.Settings) (bool, error)
	AcceptOnRegistration(ctx context.Context, subjectID string, form url.Values) (bool, error)
}

// ConsentService records account-bound consent decisions.
type ConsentService struct {
	store store.RecordStore
	lock  lock.DistributedLock
	now   func() time.Time
}

func NewConsentService(recordStore store.RecordStore, resetLock lock.DistributedLock) *ConsentService {
	return &ConsentService{store: recordStore, lock: resetLock, now: time.Now}
}

// AcceptNow stamps both acceptance fields with one instant. The first-acceptance field is only
// written when it is empty.
func (cs *ConsentService) AcceptNow(ctx context.Context, subjectID string) error {

	if err := requireSubject(subjectID); err != nil {
		return err
	}

	at := model.FormatTimestamp(cs.now())
	if err := cs.store.SetFirstAcceptedIfEmpty(ctx, subjectID, at); err != nil {
		return err
	}
	if err := cs.store.SetMostRecentAccepted(ctx, subjectID, at); err != nil {
		return err
	}

	metrics.ConsentDecisions.WithLabelValues("accepted").Inc()
	auditSubject(subjectID, log.ActionAcceptConsent, at)
	return nil
}

// RejectNow overwrites the rejection timestamp. Acceptance fields are left as they are.
func (cs *ConsentService) RejectNow(ctx context.Context, subjectID string) error {

	if err := requireSubject(subjectID); err != nil {
		return err
	}

	at := model.FormatTimestamp(cs.now())
	if err := cs.store.SetRejected(ctx, subjectID, at); err != nil {
		return err
	}

	metrics.ConsentDecisions.WithLabelValues("rejected").Inc()
	auditSubject(subjectID, log.ActionRejectConsent, at)
	return nil
}

func (cs *ConsentService) HasAccepted(ctx context.Context, subjectID string) (bool, error) {
	when, err := cs.WhenAccepted(ctx, subjectID, "")
	return when != "", err
}

// WhenAccepted returns the most recent acceptance formatted with layout, or "" when there is no valid one.
func (cs *ConsentService) WhenAccepted(ctx context.Context, subjectID, layout string) (string, error) {
	return cs.when(ctx, subjectID, layout, func(r *model.ConsentRecord) string { return r.AcceptedAtMostRecent })
}

func (cs *ConsentService) HasRejected(ctx context.Context, subjectID string) (bool, error) {
	when, err := cs.WhenRejected(ctx, subjectID, "")
	return when != "", err
}

func (cs *ConsentService) WhenRejected(ctx context.Context, subjectID, layout string) (string, error) {
	return cs.when(ctx, subjectID, layout, func(r *model.ConsentRecord) string { return r.RejectedAt })
}

// ClearAll removes every consent field of the subject.
func (cs *ConsentService) ClearAll(ctx context.Context, subjectID string) error {

	if err := requireSubject(subjectID); err != nil {
		return err
	}
	if err := cs.store.Delete(ctx, subjectID); err != nil {
		return err
	}
	metrics.ConsentDecisions.WithLabelValues("cleared").Inc()
	auditSubject(subjectID, log.ActionClearConsent, "")
	return nil
}

// ResetAll clears the records of every subject. Only one reset runs at a time across instances.
func (cs *ConsentService) ResetAll(ctx context.Context, initiatorID string) (int, error) {

	logger := log.GetLogger()
	acquired, err := cs.lock.Acquire(ctx, constants.ResetConsentsLockKey)
	if err != nil {
		return 0, err
	}
	if !acquired {
		return 0, errors2.NewClientError(errors2.RESET_IN_PROGRESS.WithDescription("Try again once the running reset completes."),
			http.StatusBadRequest)
	}
	defer func() {
		if err := cs.lock.Release(context.WithoutCancel(ctx), constants.ResetConsentsLockKey); err != nil {
			logger.Error("Failed to release the consent reset lock", log.Error(err))
		}
	}()

	subjectIDs, err := cs.store.ListSubjectIDs(ctx)
	if err != nil {
		return 0, err
	}

	cleared := 0
	for _, subjectID := range subjectIDs {
		if err := cs.store.Delete(ctx, subjectID); err != nil {
			errorMsg := fmt.Sprintf("Consent reset stopped after clearing %d of %d records.", cleared, len(subjectIDs))
			logger.Error(errorMsg, log.Error(err))
			return cleared, errors2.NewServerError(errors2.RESET_CONSENTS.WithDescription(errorMsg), err)
		}
		cleared++
	}

	logger.Info("Reset all consent records", log.Int("cleared", cleared))
	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   initiatorID,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetType:    log.TargetTypeConsentRecord,
		ActionID:      log.ActionResetConsents,
		Data:          map[string]int{"cleared": cleared},
	})
	return cleared, nil
}

// Stats counts decisions. When totalSubjects is known the undecided count is derived from it.
func (cs *ConsentService) Stats(ctx context.Context, totalSubjects int64) (*model.ConsentStats, error) {

	stats, err := cs.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if totalSubjects > 0 {
		stats.Total = totalSubjects
		stats.Undecided = max(0, totalSubjects-stats.Decided)
	}
	return stats, nil
}

func (cs *ConsentService) Status(ctx context.Context, subjectID string) (*model.ConsentStatusAPI, error) {

	if err := requireSubject(subjectID); err != nil {
		return nil, err
	}
	record, err := cs.store.Get(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	status := &model.ConsentStatusAPI{SubjectID: subjectID}
	if record == nil {
		return status, nil
	}
	status.WhenAccepted = formatStored(record.AcceptedAtMostRecent, model.TimestampLayout)
	status.FirstAccepted = formatStored(record.AcceptedAtFirst, model.TimestampLayout)
	status.WhenRejected = formatStored(record.RejectedAt, model.TimestampLayout)
	status.HasAccepted = status.WhenAccepted != ""
	status.HasRejected = status.WhenRejected != ""
	return status, nil
}

// AcceptOnNewOrder records acceptance for the customer behind a new order when the site opted in.
func (cs *ConsentService) AcceptOnNewOrder(ctx context.Context, subjectID string,
	settings settingsModel.Settings) (bool, error) {

	if !settings.GetBool(settingsModel.OptConsentOnNewOrder, false) || subjectID == "" {
		return false, nil
	}
	if err := cs.AcceptNow(ctx, subjectID); err != nil {
		return false, err
	}
	return true, nil
}

// AcceptOnRegistration records acceptance for a newly registered account when the posted form carries consent.
func (cs *ConsentService) AcceptOnRegistration(ctx context.Context, subjectID string, form url.Values) (bool, error) {

	if !formService.IsAcceptedInPostData(form) {
		log.GetLogger().Debug("Registration form did not carry consent", log.String("subjectId", subjectID))
		return false, nil
	}
	if err := cs.AcceptNow(ctx, subjectID); err != nil {
		return false, err
	}
	return true, nil
}

func (cs *ConsentService) when(ctx context.Context, subjectID, layout string,
	field func(*model.ConsentRecord) string) (string, error) {

	if subjectID == "" {
		return "", nil
	}
	record, err := cs.store.Get(ctx, subjectID)
	if err != nil || record == nil {
		return "", err
	}
	return formatStored(field(record), layout), nil
}

func formatStored(raw, layout string) string {

	if layout == "" {
		layout = model.TimestampLayout
	}
	parsed, ok := model.ParseTimestamp(raw)
	if !ok {
		if raw != "" {
			log.GetLogger().Warn("Ignoring invalid consent timestamp", log.String("value", raw))
		}
		return ""
	}
	return parsed.UTC().Format(layout)
}

func requireSubject(subjectID string) error {
	if subjectID == "" {
		return errors2.NewClientError(errors2.BAD_REQUEST.WithDescription("A subject id is required."), http.StatusBadRequest)
	}
	return nil
}

func auditSubject(subjectID, action, at string) {

	event := log.AuditEvent{
		InitiatorID:   subjectID,
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      subjectID,
		TargetType:    log.TargetTypeConsentRecord,
		ActionID:      action,
	}
	if at != "" {
		event.Data = map[string]string{"at": at}
	}
	log.GetLogger().Audit(event)
}
