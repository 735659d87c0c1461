package operations

import (
	"github.com/R3E-Network/korechain_gateway/internal/schema"
)

const moduleIndustry = "industry"

func industryOperations() []Descriptor {
	return []Descriptor{
		invoke(PostIndustry, moduleIndustry, "AddIndustry", schema.Object(
			schema.Required("title", schema.String()),
			schema.Required("industry", schema.String().AllowEmpty()),
			schema.Required("parent_id", schema.Alphanum().AllowEmpty()),
		), stamped),
		query(GetIndustries, moduleIndustry, "GetAllIndustries", alphanumSchema("industry_id")),
	}
}
