// Package modelgen generates a starter YAML file with example tables,
// matching aquaform.py's `model()` boilerplate - a `users` table, a
// `posts` table referencing it, and, in the Postgres-REST template only,
// a `comments` table referencing both. The MySQL template has `users`
// and `posts` only.
package modelgen

import (
	"fmt"
)

const postgresTemplate = `resources:
  users_table:
    type: supabase_table
    name: users
    url: "${SUPABASE_URL}"
    key: "${SUPABASE_KEY}"
    columns:
      - name: id
        type: UUID
        nullable: false
        default: gen_random_uuid()
      - name: email
        type: VARCHAR(255)
        nullable: false
      - name: full_name
        type: VARCHAR(100)
        nullable: true
      - name: status
        type: VARCHAR(20)
        nullable: false
        default: "'active'"
      - name: created_at
        type: TIMESTAMPTZ
        nullable: false
        default: CURRENT_TIMESTAMP
      - name: updated_at
        type: TIMESTAMPTZ
        nullable: false
        default: CURRENT_TIMESTAMP
    primary_key:
      - id

  posts_table:
    type: supabase_table
    name: posts
    url: "${SUPABASE_URL}"
    key: "${SUPABASE_KEY}"
    columns:
      - name: id
        type: UUID
        nullable: false
        default: gen_random_uuid()
      - name: user_id
        type: UUID
        nullable: false
      - name: title
        type: VARCHAR(200)
        nullable: false
      - name: content
        type: TEXT
        nullable: true
      - name: status
        type: VARCHAR(20)
        nullable: false
        default: "'draft'"
    primary_key:
      - id
    foreign_keys:
      - columns: user_id
        reference_table: users
        reference_columns: id
        on_delete: CASCADE

  comments_table:
    type: supabase_table
    name: comments
    url: "${SUPABASE_URL}"
    key: "${SUPABASE_KEY}"
    columns:
      - name: id
        type: UUID
        nullable: false
        default: gen_random_uuid()
      - name: post_id
        type: UUID
        nullable: false
      - name: user_id
        type: UUID
        nullable: false
      - name: body
        type: TEXT
        nullable: false
    primary_key:
      - id
    foreign_keys:
      - columns: post_id
        reference_table: posts
        reference_columns: id
        on_delete: CASCADE
      - columns: user_id
        reference_table: users
        reference_columns: id
        on_delete: CASCADE
`

const mysqlTemplate = `resources:
  users_table:
    type: mysql_table
    name: users
    host: "${MYSQL_HOST}"
    user: "${MYSQL_USER}"
    password: "${MYSQL_PASSWORD}"
    database: "${MYSQL_DATABASE}"
    columns:
      - name: id
        type: VARCHAR(36)
        nullable: false
      - name: email
        type: VARCHAR(255)
        nullable: false
      - name: created_at
        type: TIMESTAMP
        nullable: false
        default: CURRENT_TIMESTAMP
    primary_key:
      - id

  posts_table:
    type: mysql_table
    name: posts
    host: "${MYSQL_HOST}"
    user: "${MYSQL_USER}"
    password: "${MYSQL_PASSWORD}"
    database: "${MYSQL_DATABASE}"
    columns:
      - name: id
        type: VARCHAR(36)
        nullable: false
      - name: user_id
        type: VARCHAR(36)
        nullable: false
      - name: title
        type: VARCHAR(200)
        nullable: false
    primary_key:
      - id
    foreign_keys:
      - columns: user_id
        reference_table: users
        reference_columns: id
        on_delete: CASCADE
`

// Generate returns the starter YAML content for backend. defaultName
// reports the filename it is conventionally written to.
func Generate(backend string) (content, defaultName string, err error) {
	switch backend {
	case "postgres_rest", "":
		return postgresTemplate, "aqua.model.yaml", nil
	case "mysql":
		return mysqlTemplate, "aquamy.model.yaml", nil
	default:
		return "", "", fmt.Errorf("modelgen: unknown backend %q", backend)
	}
}
