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

	"github.com/wso2/tracker-consent-service/internal/forms/model"
	errors2 "github.com/wso2/tracker-consent-service/internal/system/errors"
	"github.com/wso2/tracker-consent-service/internal/system/log"
)

const mongoTimeout = 5 * time.Second

type formDocument struct {
	ID       string `bson:"_id"`
	Title    string `bson:"title"`
	Body     string `bson:"body"`
	MailBody string `bson:"mail_body"`
}

func (d formDocument) toForm() model.Form {
	return model.Form{ID: d.ID, Title: d.Title, Body: d.Body, MailBody: d.MailBody}
}

// MongoFormStore keeps one document per form.
type MongoFormStore struct {
	collection *mongo.Collection
}

func NewMongoFormStore(db *mongo.Database, collectionName string) *MongoFormStore {
	return &MongoFormStore{collection: db.Collection(collectionName)}
}

// GetForm returns nil when no form has the given id.
func (s *MongoFormStore) GetForm(ctx context.Context, formID string) (*model.Form, error) {

	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	var doc formDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": formID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		errorMsg := "Failed to fetch form: " + formID
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.INSTALL_CONSENT_CHECKBOX.WithDescription(errorMsg), err)
	}
	form := doc.toForm()
	return &form, nil
}

func (s *MongoFormStore) ListForms(ctx context.Context) ([]model.Form, error) {

	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		errorMsg := "Failed to list forms."
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.INSTALL_CONSENT_CHECKBOX.WithDescription(errorMsg), err)
	}
	defer cursor.Close(ctx)

	var docs []formDocument
	if err := cursor.All(ctx, &docs); err != nil {
		errorMsg := "Failed to decode forms."
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.INSTALL_CONSENT_CHECKBOX.WithDescription(errorMsg), err)
	}

	forms := make([]model.Form, 0, len(docs))
	for _, doc := range docs {
		forms = append(forms, doc.toForm())
	}
	return forms, nil
}

func (s *MongoFormStore) UpdateForm(ctx context.Context, form model.Form) error {

	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": form.ID},
		bson.M{"$set": bson.M{"title": form.Title, "body": form.Body, "mail_body": form.MailBody}})
	if err != nil {
		errorMsg := "Failed to update form: " + form.ID
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.INSTALL_CONSENT_CHECKBOX.WithDescription(errorMsg), err)
	}
	return nil
}
