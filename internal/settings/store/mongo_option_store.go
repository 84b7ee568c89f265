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
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errors2 "github.com/wso2/tracker-consent-service/internal/system/errors"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

const mongoTimeout = 5 * time.Second

type optionDocument struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// MongoOptionStore keeps one document per option in the given collection.
type MongoOptionStore struct {
	collection *mongo.Collection
}

func NewMongoOptionStore(db *mongo.Database, collectionName string) *MongoOptionStore {
	return &MongoOptionStore{collection: db.Collection(collectionName)}
}

func (s *MongoOptionStore) GetOptions(ctx context.Context) (map[string]string, error) {

	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		errorMsg := "Failed to fetch site options."
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.GET_SETTINGS.WithDescription(errorMsg), err)
	}
	defer cursor.Close(ctx)

	var docs []optionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		errorMsg := "Failed to decode site options."
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.GET_SETTINGS.WithDescription(errorMsg), err)
	}

	result := make(map[string]string, len(docs))
	for _, doc := range docs {
		result[doc.Key] = doc.Value
	}
	return result, nil
}

func (s *MongoOptionStore) UpsertOptions(ctx context.Context, opts map[string]string) error {

	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	for key, value := range opts {
		_, err := s.collection.UpdateOne(ctx,
			bson.M{"_id": key},
			bson.M{"$set": bson.M{"value": value}},
			options.Update().SetUpsert(true))
		if err != nil {
			errorMsg := "Failed to update site option: " + key
			log.GetLogger().Debug(errorMsg, log.Error(err))
			return errors2.NewServerError(errors2.UPDATE_SETTINGS.WithDescription(errorMsg), err)
		}
	}
	return nil
}
