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

package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wso2/tracker-consent-service/internal/consent/model"
	errors2 "github.com/wso2/tracker-consent-service/internal/system/errors"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

const mongoTimeout = 5 * time.Second

// MongoConsentRecordStore keeps one document per subject, keyed by subject id.
type MongoConsentRecordStore struct {
	collection *mongo.Collection
}

func NewMongoConsentRecordStore(db *mongo.Database, collectionName string) *MongoConsentRecordStore {
	return &MongoConsentRecordStore{collection: db.Collection(collectionName)}
}

func (s *MongoConsentRecordStore) Get(ctx context.Context, subjectID string) (*model.ConsentRecord, error) {

	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	var record model.ConsentRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": subjectID}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		errorMsg := "Failed to fetch consent record of: " + subjectID
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.GET_CONSENT_RECORD.WithDescription(errorMsg), err)
	}
	return &record, nil
}

// SetFirstAcceptedIfEmpty uses an update pipeline so the emptiness check and the write are one atomic update.
func (s *MongoConsentRecordStore) SetFirstAcceptedIfEmpty(ctx context.Context, subjectID, at string) error {

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"accepted_first": bson.M{"$cond": bson.A{
				bson.M{"$gt": bson.A{bson.M{"$ifNull": bson.A{"$accepted_first", ""}}, ""}},
				"$accepted_first",
				at,
			}},
		}}},
	}
	return s.upsert(ctx, subjectID, update, errors2.ACCEPT_CONSENT, "Failed to record first consent acceptance of: ")
}

func (s *MongoConsentRecordStore) SetMostRecentAccepted(ctx context.Context, subjectID, at string) error {
	return s.upsert(ctx, subjectID, bson.M{"$set": bson.M{"accepted_recent": at}},
		errors2.ACCEPT_CONSENT, "Failed to record consent acceptance of: ")
}

func (s *MongoConsentRecordStore) SetRejected(ctx context.Context, subjectID, at string) error {
	return s.upsert(ctx, subjectID, bson.M{"$set": bson.M{"rejected_at": at}},
		errors2.REJECT_CONSENT, "Failed to record consent rejection of: ")
}

func (s *MongoConsentRecordStore) Delete(ctx context.Context, subjectID string) error {

	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": subjectID}); err != nil {
		errorMsg := "Failed to clear consent record of: " + subjectID
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.CLEAR_CONSENT.WithDescription(errorMsg), err)
	}
	return nil
}

func (s *MongoConsentRecordStore) ListSubjectIDs(ctx context.Context) ([]string, error) {

	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	findOptions := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1})
	cursor, err := s.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		errorMsg := "Failed to list consent subjects."
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.RESET_CONSENTS.WithDescription(errorMsg), err)
	}
	defer cursor.Close(ctx)

	var records []model.ConsentRecord
	if err := cursor.All(ctx, &records); err != nil {
		errorMsg := "Failed to decode consent subjects."
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.RESET_CONSENTS.WithDescription(errorMsg), err)
	}

	subjectIDs := make([]string, 0, len(records))
	for _, record := range records {
		subjectIDs = append(subjectIDs, record.SubjectID)
	}
	return subjectIDs, nil
}

func (s *MongoConsentRecordStore) Stats(ctx context.Context) (*model.ConsentStats, error) {

	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	decided := bson.M{"$or": bson.A{
		bson.M{"accepted_recent": bson.M{"$nin": bson.A{nil, ""}}},
		bson.M{"rejected_at": bson.M{"$nin": bson.A{nil, ""}}},
	}}
	findOptions := options.Find().SetProjection(bson.M{"accepted_recent": 1, "rejected_at": 1})
	cursor, err := s.collection.Find(ctx, decided, findOptions)
	if err != nil {
		errorMsg := "Failed to fetch decided consent records."
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.GET_CONSENT_STATS.WithDescription(errorMsg), err)
	}
	defer cursor.Close(ctx)

	stats := &model.ConsentStats{}
	for cursor.Next(ctx) {
		var record model.ConsentRecord
		if err := cursor.Decode(&record); err != nil {
			errorMsg := "Failed to decode a consent record."
			log.GetLogger().Debug(errorMsg, log.Error(err))
			return nil, errors2.NewServerError(errors2.GET_CONSENT_STATS.WithDescription(errorMsg), err)
		}
		stats.Count(record)
	}
	if err := cursor.Err(); err != nil {
		errorMsg := "Failed to read decided consent records."
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.GET_CONSENT_STATS.WithDescription(errorMsg), err)
	}
	return stats, nil
}

func (s *MongoConsentRecordStore) upsert(ctx context.Context, subjectID string, update interface{},
	code errors2.ErrorMessage, errorPrefix string) error {

	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": subjectID}, update, options.Update().SetUpsert(true))
	if err != nil {
		errorMsg := errorPrefix + subjectID
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(code.WithDescription(errorMsg), err)
	}
	return nil
}
