package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrorDump is the log-side view of an error: its chain plus whatever the
// store driver reported.
type ErrorDump struct {
	TopMessage string
	Code       Code
	Chain      []string

	PGCode       string
	PGConstraint string
	PGTable      string
	PGColumn     string
	PGDetail     string
	PGMessage    string

	MongoCode    int
	MongoMessage string
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}
	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var (
		pgxErr   *pgconn.PgError
		pqErr    *pq.Error
		cmdErr   mongo.CommandError
		writeErr mongo.WriteException
	)
	switch {
	case errors.As(err, &pgxErr):
		d.PGCode, d.PGMessage, d.PGDetail = pgxErr.Code, pgxErr.Message, pgxErr.Detail
		d.PGTable, d.PGColumn, d.PGConstraint = pgxErr.TableName, pgxErr.ColumnName, pgxErr.ConstraintName
	case errors.As(err, &pqErr):
		d.PGCode, d.PGMessage, d.PGDetail = string(pqErr.Code), pqErr.Message, pqErr.Detail
		d.PGTable, d.PGColumn, d.PGConstraint = pqErr.Table, pqErr.Column, pqErr.Constraint
	case errors.As(err, &cmdErr):
		d.MongoCode, d.MongoMessage = int(cmdErr.Code), cmdErr.Message
	case errors.As(err, &writeErr) && len(writeErr.WriteErrors) > 0:
		d.MongoCode, d.MongoMessage = writeErr.WriteErrors[0].Code, writeErr.WriteErrors[0].Message
	}
	return d
}

// Fields renders the dump as structured log fields, omitting driver fields
// that do not apply.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if d.PGCode != "" {
		fields["pg_code"] = d.PGCode
		fields["pg_message"] = d.PGMessage
		fields["pg_detail"] = d.PGDetail
		fields["pg_table"] = d.PGTable
		fields["pg_column"] = d.PGColumn
		fields["pg_constraint"] = d.PGConstraint
	}
	if d.MongoCode != 0 {
		fields["mongo_code"] = d.MongoCode
		fields["mongo_message"] = d.MongoMessage
	}
	return fields
}
