package schema

// DefaultTimeField anchors every time constraint the builder emits.
const DefaultTimeField = "@timestamp"

// PrimaryFacets are the dimensions a count query is always broken down by.
var PrimaryFacets = []string{"event.outcome", "event.action", "app.channel"}

// BaselineFields is the banking log schema the service starts with before
// the first live refresh succeeds. The seeder installs the same entries
// into the meta-dictionary index, so a fresh environment and a seeded one
// agree on what is queryable.
func BaselineFields() []FieldInfo {
	return []FieldInfo{
		{
			Name: "@timestamp",
			Type: "date",
		},
		{
			Name:        "event.action",
			Type:        "keyword",
			Description: "The action performed by the user or system",
			ValidValues: []string{"user_login", "user_logout", "password_reset", "app_launch", "transaction_view", "payment_initiated", "payment_completed"},
			Synonyms:    []string{"action", "operation", "event_type", "signin", "sign-in", "login"},
			Example:     "user_login",
			Domain:      "authentication",
		},
		{
			Name:        "event.outcome",
			Type:        "keyword",
			Description: "The result of the event (success or failure)",
			ValidValues: []string{"success", "failure"},
			Synonyms:    []string{"result", "status", "outcome", "successful", "failed", "error"},
			Example:     "success",
			Domain:      "general",
		},
		{
			Name:        "event.reason",
			Type:        "keyword",
			Description: "Failure reason attached to unsuccessful events",
			Domain:      "general",
		},
		{
			Name:        "app.channel",
			Type:        "keyword",
			Description: "The application channel used",
			ValidValues: []string{"mobile", "online", "ivr"},
			Synonyms:    []string{"channel", "platform", "app_type", "mobile banking", "web", "internet banking"},
			Example:     "mobile",
			Domain:      "channels",
		},
		{
			Name: "app.name",
			Type: "keyword",
		},
		{
			Name: "app.version",
			Type: "keyword",
		},
		{
			Name: "user.id",
			Type: "keyword",
		},
		{
			Name: "source.ip",
			Type: "ip",
		},
		{
			Name: "device.os.name",
			Type: "keyword",
		},
		{
			Name: "device.model",
			Type: "keyword",
		},
		{
			Name: "geo.city_name",
			Type: "keyword",
		},
		{
			Name: "trace.id",
			Type: "keyword",
		},
		{
			Name: "transaction.amount",
			Type: "float",
		},
		{
			Name: "transaction.currency",
			Type: "keyword",
		},
	}
}

// BaselineSnapshot wraps BaselineFields with the default metadata.
func BaselineSnapshot() *Snapshot {
	return NewSnapshot(BaselineFields(), DefaultTimeField, PrimaryFacets)
}
