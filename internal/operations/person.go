package operations

import (
	"time"

	svcerrors "github.com/R3E-Network/korechain_gateway/internal/errors"
	"github.com/R3E-Network/korechain_gateway/internal/normalize"
	"github.com/R3E-Network/korechain_gateway/internal/schema"
)

const modulePerson = "person"

func personSchema(now func() time.Time) *schema.ObjectRule {
	kyc := schema.Object(
		schema.Required("provider_id", schema.Alphanum()),
		schema.Required("profile_id", schema.String().AllowEmpty()),
		schema.Required("verification_date", schema.String().Past(svcerrors.MsgFutureVerification).Clock(now)),
		schema.Required("verification_expiry_date", schema.ISODate().AllowEmpty()),
		schema.Required("tid", schema.Alphanum()),
		schema.Required("overall_status", schema.String()),
		schema.Required("kyc_report_hash", schema.String()),
	)

	return schema.Object(
		schema.Required("pd", schema.String()),
		schema.Required("source_id", schema.String().AllowEmpty()),
		schema.Required("verifications", schema.Object(schema.Required("kyc_verification", kyc))),
		schema.Required("status", schema.Number()),
	)
}

func personOperations(now func() time.Time) []Descriptor {
	return []Descriptor{
		invoke(PostPerson, modulePerson, "AddPerson", personSchema(now), func(env normalize.Env, rec normalize.Record) (interface{}, error) {
			return NormalizePerson(env, rec), nil
		}),
		query(GetPersonByID, modulePerson, "GetPerson", idSchema()),
	}
}

// NormalizePerson shapes a person record. It is shared by postPerson and the
// person bulk import.
func NormalizePerson(env normalize.Env, rec normalize.Record) map[string]interface{} {
	kyc := rec.Child("verifications").Child("kyc_verification")
	kyc.Time("verification_date", "verification_expiry_date")

	rec.Int("status", 0).Stamp(env)
	return rec.Map()
}
