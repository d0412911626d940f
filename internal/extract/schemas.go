package extract

import "github.com/ribara/skillbridge/internal/llm"

// Schemas enforced on each extraction pass. The completion service
// validates raw model output against these before unmarshaling.

var cvProfileSchema = llm.SchemaDescriptor{
	Name: "cv_profile",
	Schema: `{
		"type": "object",
		"required": ["user_name", "skills", "profile_summary"],
		"properties": {
			"user_name": {"type": "string"},
			"profile_summary": {"type": "string"},
			"skills": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["skill_name", "proficiency_level"],
					"properties": {
						"skill_name": {"type": "string"},
						"proficiency_level": {"type": "string"}
					}
				}
			}
		}
	}`,
}

var cleanPostingSchema = llm.SchemaDescriptor{
	Name: "clean_posting",
	Schema: `{
		"type": "object",
		"required": ["job_role", "cleaned_description"],
		"properties": {
			"job_role": {"type": "string"},
			"cleaned_description": {"type": "string"}
		}
	}`,
}

var jobDetailsSchema = llm.SchemaDescriptor{
	Name: "job_details",
	Schema: `{
		"type": "object",
		"required": ["job_role", "company_name", "job_location", "description_summary"],
		"properties": {
			"job_role": {"type": "string"},
			"company_name": {"type": "string"},
			"job_location": {"type": "string"},
			"description_summary": {"type": "string"}
		}
	}`,
}

var requirementsSchema = llm.SchemaDescriptor{
	Name: "requirements",
	Schema: `{
		"type": "object",
		"required": ["skills"],
		"properties": {
			"skills": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["skill_name", "proficiency_level"],
					"properties": {
						"skill_name": {"type": "string"},
						"proficiency_level": {"type": "string"}
					}
				}
			}
		}
	}`,
}
