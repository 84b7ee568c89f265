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

package scripts

var GetConsentRecord = map[string]string{
	"postgres": `SELECT subject_id, accepted_first, accepted_recent, rejected_at FROM consent_records WHERE subject_id = $1`,
}

var SetFirstAcceptedIfEmpty = map[string]string{
	"postgres": `INSERT INTO consent_records (subject_id, accepted_first, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (subject_id) DO UPDATE SET
            accepted_first = COALESCE(NULLIF(consent_records.accepted_first, ''), EXCLUDED.accepted_first),
            updated_at = NOW()`,
}

var SetMostRecentAccepted = map[string]string{
	"postgres": `INSERT INTO consent_records (subject_id, accepted_recent, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (subject_id) DO UPDATE SET accepted_recent = EXCLUDED.accepted_recent, updated_at = NOW()`,
}

var SetRejected = map[string]string{
	"postgres": `INSERT INTO consent_records (subject_id, rejected_at, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (subject_id) DO UPDATE SET rejected_at = EXCLUDED.rejected_at, updated_at = NOW()`,
}

var DeleteConsentRecord = map[string]string{
	"postgres": `DELETE FROM consent_records WHERE subject_id = $1`,
}

var ListConsentSubjects = map[string]string{
	"postgres": `SELECT subject_id FROM consent_records ORDER BY subject_id`,
}

var ListDecidedConsentRecords = map[string]string{
	"postgres": `SELECT accepted_recent, rejected_at FROM consent_records
        WHERE COALESCE(accepted_recent, '') <> '' OR COALESCE(rejected_at, '') <> ''`,
}

var GetOptions = map[string]string{
	"postgres": `SELECT option_key, option_value FROM options`,
}

var UpsertOption = map[string]string{
	"postgres": `INSERT INTO options (option_key, option_value) VALUES ($1, $2)
        ON CONFLICT (option_key) DO UPDATE SET option_value = EXCLUDED.option_value`,
}

var GetForm = map[string]string{
	"postgres": `SELECT form_id, title, body, mail_body FROM forms WHERE form_id = $1`,
}

var ListForms = map[string]string{
	"postgres": `SELECT form_id, title, body, mail_body FROM forms ORDER BY form_id`,
}

var UpdateForm = map[string]string{
	"postgres": `UPDATE forms SET title = $2, body = $3, mail_body = $4 WHERE form_id = $1`,
}

// Schema is the postgres DDL for every table the server writes to.
var Schema = map[string]string{
	"postgres": `
CREATE TABLE IF NOT EXISTS consent_records (
    subject_id      VARCHAR(255) PRIMARY KEY,
    accepted_first  VARCHAR(64),
    accepted_recent VARCHAR(64),
    rejected_at     VARCHAR(64),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS options (
    option_key   VARCHAR(255) PRIMARY KEY,
    option_value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS forms (
    form_id   VARCHAR(255) PRIMARY KEY,
    title     VARCHAR(255) NOT NULL DEFAULT '',
    body      TEXT NOT NULL DEFAULT '',
    mail_body TEXT NOT NULL DEFAULT ''
);`,
}
