package discovery

import "strings"

// Canonical keys a field mapping may bind, in reporting order.
const (
	KeyEmail           = "email"
	KeyName            = "name"
	KeyCompany         = "company"
	KeyAccountValue    = "account_value"
	KeyCustomerID      = "customer_id"
	KeyPhone           = "phone"
	KeyCreatedDate     = "created_date"
	KeyLastContact     = "last_contact"
	KeyEngagementScore = "engagement_score"
	KeyCustomerType    = "customer_type"
	KeySentiment       = "sentiment"
	KeyLastPurchase    = "last_purchase"
)

// CanonicalKeys lists every mappable key in priority order.
var CanonicalKeys = []string{
	KeyEmail, KeyName, KeyCompany, KeyAccountValue, KeyCustomerID,
	KeyPhone, KeyCreatedDate, KeyLastContact, KeyEngagementScore,
	KeyCustomerType, KeySentiment, KeyLastPurchase,
}

// synonyms holds the ordered pattern list per canonical key. Order matters:
// earlier patterns win, and exact matches always beat substring matches.
var synonyms = map[string][]string{
	KeyEmail: {
		"email_address", "email", "e-mail", "e_mail", "contact_email",
		"customer_email", "user_email", "primary_email",
	},
	KeyName: {
		"name", "full_name", "customer_name", "client_name", "contact_name",
		"first_name", "last_name", "display_name", "person_name",
	},
	KeyCompany: {
		"company", "company_name", "organization", "org", "business",
		"account", "account_name", "client", "customer_company",
	},
	KeyAccountValue: {
		"account_value", "value", "revenue", "contract_value", "deal_value",
		"ticket_size", "ticket size", "annual_revenue", "mrr", "arr", "amount", "price",
		"deal_amount", "contract_amount", "purchase_amount", "order_value",
	},
	KeyCustomerID: {
		"id", "customer_id", "client_id", "account_id", "user_id",
		"contact_id", "record_id", "reference",
	},
	KeyPhone: {
		"phone", "phone_number", "telephone", "mobile", "cell",
		"contact_phone", "primary_phone",
	},
	KeyCreatedDate: {
		"created", "created_date", "date_created", "signup_date",
		"registration_date", "start_date", "onboarding_date",
	},
	KeyLastContact: {
		"last_contact", "last_contact_date", "last_interaction",
		"last_touch", "last_activity", "recent_contact",
	},
	KeyEngagementScore: {
		"engagement", "engagement_score", "customer_engagement",
		"engagement_rating", "activity_score", "involvement_score",
	},
	KeyCustomerType: {
		"type", "customer_type", "client_type", "tier", "segment",
		"category", "classification", "status",
	},
	KeySentiment: {
		"sentiment", "email_sentiment", "mood", "satisfaction",
		"feedback", "rating", "score",
	},
	KeyLastPurchase: {
		"last_purchase", "last_order", "recent_purchase", "latest_order",
		"last_transaction", "purchase_date",
	},
}

// normalizeFieldName folds case and separator style so "Email Address",
// "email-address", and "email_address" all compare equal.
func normalizeFieldName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// FindField picks the column best matching the pattern list. Every pattern
// is tried for an exact match (after separator normalization) before any
// substring match is considered, so "Email Address" beats "Email Opt Out"
// for the email key. Returns "" when nothing matches.
func FindField(fieldNames []string, patterns []string) string {
	normalized := make([]string, len(fieldNames))
	for i, f := range fieldNames {
		normalized[i] = normalizeFieldName(f)
	}

	for _, pattern := range patterns {
		p := normalizeFieldName(pattern)
		for i, f := range normalized {
			if f == p {
				return fieldNames[i]
			}
		}
	}

	for _, pattern := range patterns {
		p := normalizeFieldName(pattern)
		for i, f := range normalized {
			if strings.Contains(f, p) {
				return fieldNames[i]
			}
		}
	}

	return ""
}

// MapFields binds every canonical key it can to a raw column name.
func MapFields(fieldNames []string) FieldMapping {
	mapping := make(FieldMapping)
	for _, key := range CanonicalKeys {
		if col := FindField(fieldNames, synonyms[key]); col != "" {
			mapping[key] = col
		}
	}
	return mapping
}
