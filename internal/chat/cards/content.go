// internal/chat/cards/content.go
package cards

import "lead-intelligence/internal/models"

const defaultHeadline = "Govern Every AI Agent With Confidence"

var fallbackFeatures = []string{
	"Real-time agent monitoring",
	"Policy enforcement",
	"Compliance reporting",
}

var industryNames = map[string]string{
	"healthcare":         "healthcare",
	"financial_services": "financial services",
	"insurance":          "insurance",
	"legal":              "legal",
	"government":         "public sector",
	"retail":             "retail",
	"manufacturing":      "manufacturing",
	"technology":         "technology",
	"education":          "education",
	"energy":             "energy",
}

var industryHeadlines = map[string]string{
	"healthcare":         "HIPAA-Ready Governance for Clinical AI",
	"financial_services": "Audit-Ready Oversight for Financial AI",
	"insurance":          "Trustworthy AI Across Claims and Underwriting",
	"legal":              "Privileged-Data Safe AI for Legal Teams",
	"government":         "FedRAMP-Aligned Control for Public Sector AI",
	"retail":             "Safe, Brand-Consistent AI for Retail",
	"manufacturing":      "Reliable AI Oversight on the Factory Floor",
	"technology":         "Ship AI Features Without Losing Control",
	"education":          "Responsible AI for Students and Staff",
	"energy":             "Critical-Infrastructure Grade AI Governance",
}

var painHeadlines = map[string]string{
	"audit_trail":        "Every Agent Action, Fully Traceable",
	"compliance_burden":  "Turn Compliance From Burden to Byproduct",
	"shadow_ai":          "Bring Shadow AI Into the Light",
	"data_leakage":       "Stop Sensitive Data Before It Leaves",
	"visibility":         "See Every Agent, Every Decision",
	"access_control":     "Least-Privilege Access for Every Agent",
	"hallucination":      "Catch Hallucinations Before Customers Do",
	"cost_control":       "Keep AI Spend Predictable",
	"policy_enforcement": "Policies That Enforce Themselves",
	"incident_response":  "Contain AI Incidents in Seconds",
	"scaling_governance": "Governance That Scales With Your Agents",
}

var industryBenefits = map[string][]string{
	"healthcare":         {"PHI redaction in prompts and outputs", "Clinical workflow audit trails"},
	"financial_services": {"Model risk management evidence", "Trade and advice surveillance"},
	"insurance":          {"Explainable claims decisions", "Underwriting fairness monitoring"},
	"legal":              {"Privilege-aware data boundaries", "Matter-level access controls"},
	"government":         {"FedRAMP-aligned deployment", "Citizen data residency controls"},
	"retail":             {"Brand-safe response filtering", "Customer PII protection"},
	"manufacturing":      {"Operational safety guardrails", "Supplier data isolation"},
	"technology":         {"SDK-first policy hooks", "CI checks for agent behavior"},
	"education":          {"Student data privacy controls", "Age-appropriate content filters"},
	"energy":             {"Critical infrastructure safeguards", "NERC-ready audit evidence"},
}

var painSolutions = map[string]string{
	"audit_trail":        "Immutable audit logs",
	"compliance_burden":  "Automated compliance evidence",
	"shadow_ai":          "Shadow AI discovery",
	"data_leakage":       "Data loss prevention",
	"visibility":         "Unified agent inventory",
	"access_control":     "Role-based agent permissions",
	"hallucination":      "Output grounding checks",
	"cost_control":       "Token spend budgets",
	"policy_enforcement": "Runtime policy enforcement",
	"incident_response":  "One-click agent kill switch",
	"scaling_governance": "Policy templates at scale",
}

// painFeatureTags maps pain points to the feature tags highlighted on the comparison card.
var painFeatureTags = map[string]string{
	"audit_trail":        "audit_logging",
	"compliance_burden":  "compliance_automation",
	"shadow_ai":          "agent_discovery",
	"data_leakage":       "dlp",
	"visibility":         "observability",
	"access_control":     "rbac",
	"hallucination":      "output_validation",
	"cost_control":       "cost_controls",
	"policy_enforcement": "policy_engine",
	"incident_response":  "kill_switch",
	"scaling_governance": "policy_templates",
}

var complianceFeatures = map[string]string{
	"hipaa":     "HIPAA safeguards and BAA support",
	"soc2":      "SOC 2 control mapping",
	"gdpr":      "GDPR data subject controls",
	"pci_dss":   "PCI DSS cardholder data masking",
	"iso27001":  "ISO 27001 evidence collection",
	"fedramp":   "FedRAMP boundary controls",
	"ccpa":      "CCPA opt-out enforcement",
	"sox":       "SOX change-control evidence",
	"eu_ai_act": "EU AI Act risk classification",
}

var defaultIntegrations = []string{"OpenAI", "Anthropic", "LangChain", "AWS Bedrock", "Azure OpenAI"}

var caseStudies = map[string]models.CaseStudy{
	"healthcare": {
		ID:        "regional-health-network",
		Company:   "Regional Health Network",
		Industry:  "healthcare",
		Challenge: "Clinical documentation agents touched PHI with no audit trail",
		Solution:  "Centralised policy enforcement with PHI redaction and full action logging",
		Results:   []string{"100% of agent actions logged", "HIPAA audit prep cut from 6 weeks to 4 days", "Zero PHI exposure incidents"},
	},
	"financial_services": {
		ID:        "global-investment-bank",
		Company:   "Global Investment Bank",
		Industry:  "financial_services",
		Challenge: "Hundreds of research and advisory agents outside model risk management",
		Solution:  "Agent inventory with SR 11-7 aligned monitoring and approvals",
		Results:   []string{"340 agents brought under governance", "Model risk reviews 3x faster", "Passed regulator exam with no findings"},
	},
	"insurance": {
		ID:        "national-insurer",
		Company:   "National Insurer",
		Industry:  "insurance",
		Challenge: "Claims automation decisions could not be explained to regulators",
		Solution:  "Decision tracing and fairness monitoring on every claims agent",
		Results:   []string{"Claims cycle time down 40%", "Full decision lineage for every payout", "Bias alerts resolved within 24 hours"},
	},
}

var enterpriseCaseStudy = models.CaseStudy{
	ID:        "fortune-500-enterprise",
	Company:   "Fortune 500 Enterprise",
	Industry:  "enterprise",
	Challenge: "AI adoption outpaced security and compliance review",
	Solution:  "Single control plane for discovery, policy and audit across business units",
	Results:   []string{"85% reduction in shadow AI", "Policy rollout in days instead of months", "Board-ready AI risk reporting"},
}

// High-risk industries get a higher default audit load and compliance risk in the ROI seed.
var highRiskIndustries = map[string]bool{
	"healthcare":         true,
	"financial_services": true,
	"insurance":          true,
}

const (
	defaultAgentCount       = 10
	defaultAvgSalary        = 95000.0
	defaultAuditHours       = 20
	highRiskAuditHours      = 40
	enterpriseMinAgents     = 25
	startupMaxAgents        = 10
	startupSalaryMultiplier = 0.85
)
