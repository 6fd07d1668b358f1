package schema

import (
	"github.com/jokari-ai/knowledge-hub/pkg/types"
)

var definitions = []Definition{
	// Sales
	{
		Name:       "TrainingModule",
		DocType:    types.DOC_TYPE_TRAINING_MODULE,
		Department: types.DEPARTMENT_SALES,
		Required:   []string{"title", "version", "content"},
		PrimaryKey: []string{"title", "version"},
		Fields: []Field{
			{Name: "title", Type: "string", Required: true, Description: "Training module title"},
			{Name: "version", Type: "string", Required: true, Description: "Version number, e.g. '1.0'"},
			{Name: "content", Type: "string", Required: true, Description: "Main training content"},
			{Name: "objectives", Type: "list", Description: "Learning objectives"},
			{Name: "target_audience", Type: "string", Description: "Intended audience"},
		},
	},
	{
		Name:       "Objection",
		DocType:    types.DOC_TYPE_OBJECTION,
		Department: types.DEPARTMENT_SALES,
		Required:   []string{"id", "objection_text", "response"},
		PrimaryKey: []string{"id"},
		Fields: []Field{
			{Name: "id", Type: "string", Required: true, Description: "Unique objection id"},
			{Name: "objection_text", Type: "string", Required: true, Description: "The customer objection"},
			{Name: "response", Type: "string", Required: true, Description: "Recommended response"},
			{Name: "category", Type: "string", Description: "Category, e.g. 'price', 'timing'"},
			{Name: "effectiveness_score", Type: "number", Description: "Effectiveness rating 0-10"},
		},
	},
	{
		Name:       "Persona",
		DocType:    types.DOC_TYPE_PERSONA,
		Department: types.DEPARTMENT_SALES,
		Required:   []string{"name", "role"},
		PrimaryKey: []string{"name"},
		Fields: []Field{
			{Name: "name", Type: "string", Required: true, Description: "Persona name"},
			{Name: "role", Type: "string", Required: true, Description: "Role or position"},
			{Name: "pain_points", Type: "list", Description: "Pain points"},
			{Name: "goals", Type: "list", Description: "Goals"},
			{Name: "triggers", Type: "list", Description: "Buying triggers"},
		},
	},
	{
		Name:       "PitchScript",
		DocType:    types.DOC_TYPE_PITCH_SCRIPT,
		Department: types.DEPARTMENT_SALES,
		Required:   []string{"title", "scenario", "script_text"},
		PrimaryKey: []string{"title", "scenario"},
		Fields: []Field{
			{Name: "title", Type: "string", Required: true, Description: "Pitch script title"},
			{Name: "scenario", Type: "string", Required: true, Description: "Usage scenario"},
			{Name: "script_text", Type: "string", Required: true, Description: "The pitch text"},
			{Name: "key_points", Type: "list", Description: "Key messages"},
		},
	},
	{
		Name:       "EmailTemplate",
		DocType:    types.DOC_TYPE_EMAIL_TEMPLATE,
		Department: types.DEPARTMENT_SALES,
		Required:   []string{"name", "subject", "body"},
		PrimaryKey: []string{"name"},
		Fields: []Field{
			{Name: "name", Type: "string", Required: true, Description: "Template name"},
			{Name: "subject", Type: "string", Required: true, Description: "Subject line"},
			{Name: "body", Type: "string", Required: true, Description: "Email body"},
			{Name: "use_case", Type: "string", Description: "Use case"},
			{Name: "variables", Type: "list", Description: "Placeholder variables"},
		},
	},
	// Support
	{
		Name:       "FAQ",
		DocType:    types.DOC_TYPE_FAQ,
		Department: types.DEPARTMENT_SUPPORT,
		Required:   []string{"question", "answer"},
		PrimaryKey: []string{"question"},
		Fields: []Field{
			{Name: "question", Type: "string", Required: true, Description: "The frequently asked question"},
			{Name: "answer", Type: "string", Required: true, Description: "The answer"},
			{Name: "category", Type: "string", Description: "Category"},
			{Name: "related_products", Type: "list", Description: "Affected products"},
		},
	},
	{
		Name:       "TroubleshootingGuide",
		DocType:    types.DOC_TYPE_TROUBLESHOOTING_GUIDE,
		Department: types.DEPARTMENT_SUPPORT,
		Required:   []string{"title", "problem", "solution"},
		PrimaryKey: []string{"title"},
		Fields: []Field{
			{Name: "title", Type: "string", Required: true, Description: "Guide title"},
			{Name: "problem", Type: "string", Required: true, Description: "Problem description"},
			{Name: "steps", Type: "list", Description: "Troubleshooting steps"},
			{Name: "solution", Type: "string", Required: true, Description: "Resolution"},
		},
	},
	{
		Name:       "HowToSteps",
		DocType:    types.DOC_TYPE_HOW_TO_STEPS,
		Department: types.DEPARTMENT_SUPPORT,
		Required:   []string{"title", "steps"},
		PrimaryKey: []string{"title"},
		Fields: []Field{
			{Name: "title", Type: "string", Required: true, Description: "Guide title"},
			{Name: "steps", Type: "list", Required: true, Description: "Instruction steps"},
		},
	},
	// Product
	{
		Name:       "ProductSpec",
		DocType:    types.DOC_TYPE_PRODUCT_SPEC,
		Department: types.DEPARTMENT_PRODUCT,
		Required:   []string{"artnr", "name"},
		PrimaryKey: []string{"artnr"},
		Fields: []Field{
			{Name: "artnr", Type: "string", Required: true, Description: "Article number"},
			{Name: "name", Type: "string", Required: true, Description: "Product name"},
			{Name: "description", Type: "string", Description: "Product description"},
			{Name: "specs", Type: "mapping", Description: "Technical specifications"},
			{Name: "compatibility", Type: "list", Description: "Compatible products or systems"},
		},
	},
	{
		Name:       "CompatibilityMatrix",
		DocType:    types.DOC_TYPE_COMPATIBILITY_MATRIX,
		Department: types.DEPARTMENT_PRODUCT,
		Required:   []string{"product_id"},
		PrimaryKey: []string{"product_id"},
		Fields: []Field{
			{Name: "product_id", Type: "string", Required: true, Description: "Product id or article number"},
			{Name: "compatible_with", Type: "list", Description: "Compatible products"},
			{Name: "incompatible_with", Type: "list", Description: "Incompatible products"},
			{Name: "notes", Type: "string", Description: "Additional notes"},
		},
	},
	{
		Name:       "SafetyNotes",
		DocType:    types.DOC_TYPE_SAFETY_NOTES,
		Department: types.DEPARTMENT_PRODUCT,
		Required:   []string{"product_id", "warnings"},
		PrimaryKey: []string{"product_id"},
		Fields: []Field{
			{Name: "product_id", Type: "string", Required: true, Description: "Product id or article number"},
			{Name: "warnings", Type: "list", Required: true, Description: "Safety warnings"},
			{Name: "certifications", Type: "list", Description: "Certifications"},
			{Name: "handling_instructions", Type: "string", Description: "Handling instructions"},
		},
	},
	// Marketing
	{
		Name:       "MessagingPillars",
		DocType:    types.DOC_TYPE_MESSAGING_PILLARS,
		Department: types.DEPARTMENT_MARKETING,
		Required:   []string{"pillar_name", "key_messages"},
		PrimaryKey: []string{"pillar_name"},
		Fields: []Field{
			{Name: "pillar_name", Type: "string", Required: true, Description: "Messaging pillar name"},
			{Name: "key_messages", Type: "list", Required: true, Description: "Key messages"},
			{Name: "tone", Type: "string", Description: "Tone of voice"},
			{Name: "audience", Type: "string", Description: "Target audience"},
		},
	},
	{
		Name:       "ContentGuidelines",
		DocType:    types.DOC_TYPE_CONTENT_GUIDELINES,
		Department: types.DEPARTMENT_MARKETING,
		Required:   []string{"topic", "dos", "donts"},
		PrimaryKey: []string{"topic"},
		Fields: []Field{
			{Name: "topic", Type: "string", Required: true, Description: "Topic or area"},
			{Name: "dos", Type: "list", Required: true, Description: "What to do"},
			{Name: "donts", Type: "list", Required: true, Description: "What to avoid"},
			{Name: "examples", Type: "list", Description: "Examples"},
		},
	},
	// Legal
	{
		Name:       "ComplianceNotes",
		DocType:    types.DOC_TYPE_COMPLIANCE_NOTES,
		Department: types.DEPARTMENT_LEGAL,
		Required:   []string{"topic", "requirements"},
		PrimaryKey: []string{"topic", "region"},
		Fields: []Field{
			{Name: "topic", Type: "string", Required: true, Description: "Compliance topic"},
			{Name: "requirements", Type: "list", Required: true, Description: "Requirements"},
			{Name: "effective_date", Type: "string", Description: "Effective date"},
			{Name: "region", Type: "string", Description: "Region or country"},
		},
	},
	{
		Name:       "ClaimsDoDont",
		DocType:    types.DOC_TYPE_CLAIMS_DO_DONT,
		Department: types.DEPARTMENT_LEGAL,
		Required:   []string{"claim_type", "allowed", "prohibited"},
		PrimaryKey: []string{"claim_type"},
		Fields: []Field{
			{Name: "claim_type", Type: "string", Required: true, Description: "Type of marketing claim"},
			{Name: "allowed", Type: "list", Required: true, Description: "Allowed statements"},
			{Name: "prohibited", Type: "list", Required: true, Description: "Prohibited statements"},
			{Name: "examples", Type: "list", Description: "Examples"},
		},
	},
}
