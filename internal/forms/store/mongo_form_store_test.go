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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/tracker-consent-service/internal/forms/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoFormStore(t *testing.T) {

	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get maps the document", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "12"},
			{Key: "title", Value: "Contact"},
			{Key: "body", Value: "[text* your-name]\n[submit \"Send\"]"},
			{Key: "mail_body", Value: "From: [your-name]"},
		}))

		form, err := NewMongoFormStore(mt.DB, mt.Coll.Name()).GetForm(context.Background(), "12")
		require.NoError(mt, err)
		require.NotNil(mt, form)
		assert.Equal(mt, "Contact", form.Title)
		assert.Equal(mt, "From: [your-name]", form.MailBody)
	})

	mt.Run("get returns nil when absent", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		form, err := NewMongoFormStore(mt.DB, mt.Coll.Name()).GetForm(context.Background(), "99")
		require.NoError(mt, err)
		assert.Nil(mt, form)
	})

	mt.Run("list returns every form", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{{Key: "_id", Value: "1"}, {Key: "title", Value: "A"}}),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch, bson.D{{Key: "_id", Value: "2"}, {Key: "title", Value: "B"}}),
		)

		forms, err := NewMongoFormStore(mt.DB, mt.Coll.Name()).ListForms(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, []model.Form{{ID: "1", Title: "A"}, {ID: "2", Title: "B"}}, forms)
	})

	mt.Run("update failure is a server error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 91, Message: "shutting down"}))

		err := NewMongoFormStore(mt.DB, mt.Coll.Name()).UpdateForm(context.Background(), model.Form{ID: "1"})
		assert.Error(mt, err)
	})
}
