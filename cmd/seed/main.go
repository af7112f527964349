package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"logintel-backend/config"
	"logintel-backend/internal/elasticsearch"
	"logintel-backend/internal/kafka"
	"logintel-backend/internal/model"
)

// Command seed loads the demo corpus: index templates, the meta-dictionary,
// and synthetic auth/mobile/payment events over the last N days. Events are
// published to Kafka by default so the whole ingest pipeline is exercised;
// -direct bulk-indexes them into Elasticsearch instead.

var (
	authActions    = []string{"user_login", "user_logout", "password_reset"}
	mobileActions  = []string{"app_launch", "transaction_view", "account_check", "session_start"}
	paymentActions = []string{"payment_initiated", "payment_completed", "payment_failed", "transfer_processed"}
	outcomes       = []string{"success", "failure"}
	channels       = []string{"mobile", "online", "ivr"}
	failureReasons = []string{"invalid_credentials", "account_locked", "session_expired", "network_error"}
	deviceOSes     = []string{"iOS", "Android", "Windows", "macOS", "Linux"}
	cities         = []string{"New York", "London", "Tokyo", "Singapore", "Sydney", "Berlin", "Paris"}
)

func main() {
	days := pflag.Int("days", 2, "how many days of events to generate, ending today")
	eventsPerDay := pflag.Int("events-per-day", 0, "events per dataset per day; 0 uses per-dataset defaults")
	direct := pflag.Bool("direct", false, "bulk-index straight into Elasticsearch instead of publishing to Kafka")
	pflag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx := context.Background()

	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Elasticsearch")
	}

	if err := installIndexTemplates(ctx, esClient); err != nil {
		log.Fatal().Err(err).Msg("Failed to install index templates")
	}
	if err := seedDictionary(ctx, esClient, cfg.Elasticsearch.DictionaryIndex); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed meta-dictionary")
	}

	events := generateEvents(*days, *eventsPerDay)
	log.Info().Int("events", len(events)).Int("days", *days).Msg("Generated synthetic banking events")

	if *direct {
		store, err := elasticsearch.NewDirectEventStore(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create event store")
		}
		if err := store.StoreEvents(ctx, events); err != nil {
			log.Error().Err(err).Msg("Some events failed to queue for indexing")
		}
		if err := store.Close(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to flush event store")
		}
	} else {
		producer, err := kafka.NewEventProducer(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Kafka producer")
		}
		if err := producer.Produce(ctx, events); err != nil {
			log.Fatal().Err(err).Msg("Failed to publish events to Kafka")
		}
		if err := producer.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka producer")
		}
	}

	log.Info().Msg("Seeding completed")
}

// --- Index templates ---

// Daily indices inherit their mappings from these templates. The _meta block
// carries the default time field and the primary facets the schema loader
// reads at refresh time.
var indexTemplates = map[string]string{
	"logs-auth-template": `{
	  "index_patterns": ["logs-auth-*"],
	  "template": {
	    "mappings": {
	      "_meta": {
	        "default_time_field": "@timestamp",
	        "primary_facets": ["event.outcome", "event.action", "app.channel", "source.ip", "device.os.name"],
	        "examples": ["user_login failure on mobile"]
	      },
	      "properties": {
	        "@timestamp": {"type": "date"},
	        "event": {
	          "properties": {
	            "action": {"type": "keyword"},
	            "outcome": {"type": "keyword"},
	            "reason": {"type": "keyword"},
	            "dataset": {"type": "keyword"}
	          }
	        },
	        "app": {
	          "properties": {
	            "channel": {"type": "keyword"},
	            "name": {"type": "keyword"}
	          }
	        },
	        "user": {"properties": {"id": {"type": "keyword"}}},
	        "source": {"properties": {"ip": {"type": "ip"}}},
	        "device": {"properties": {"os": {"properties": {"name": {"type": "keyword"}}}}},
	        "geo": {"properties": {"city_name": {"type": "keyword"}}},
	        "trace": {"properties": {"id": {"type": "keyword"}}}
	      }
	    }
	  }
	}`,
	"logs-mobile-template": `{
	  "index_patterns": ["logs-mobile-*"],
	  "template": {
	    "mappings": {
	      "_meta": {
	        "default_time_field": "@timestamp",
	        "primary_facets": ["event.outcome", "event.action", "device.os.name", "geo.city_name"],
	        "examples": ["app_launch on iOS"]
	      },
	      "properties": {
	        "@timestamp": {"type": "date"},
	        "event": {
	          "properties": {
	            "action": {"type": "keyword"},
	            "outcome": {"type": "keyword"},
	            "dataset": {"type": "keyword"}
	          }
	        },
	        "app": {
	          "properties": {
	            "channel": {"type": "keyword"},
	            "name": {"type": "keyword"},
	            "version": {"type": "keyword"}
	          }
	        },
	        "user": {"properties": {"id": {"type": "keyword"}}},
	        "device": {
	          "properties": {
	            "os": {"properties": {"name": {"type": "keyword"}}},
	            "model": {"type": "keyword"}
	          }
	        },
	        "geo": {"properties": {"city_name": {"type": "keyword"}}}
	      }
	    }
	  }
	}`,
	"logs-payment-template": `{
	  "index_patterns": ["logs-payment-*"],
	  "template": {
	    "mappings": {
	      "_meta": {
	        "default_time_field": "@timestamp",
	        "primary_facets": ["event.outcome", "event.action", "app.channel"],
	        "examples": ["payment_completed via mobile"]
	      },
	      "properties": {
	        "@timestamp": {"type": "date"},
	        "event": {
	          "properties": {
	            "action": {"type": "keyword"},
	            "outcome": {"type": "keyword"},
	            "dataset": {"type": "keyword"}
	          }
	        },
	        "app": {
	          "properties": {
	            "channel": {"type": "keyword"},
	            "name": {"type": "keyword"}
	          }
	        },
	        "transaction": {
	          "properties": {
	            "amount": {"type": "float"},
	            "currency": {"type": "keyword"}
	          }
	        },
	        "user": {"properties": {"id": {"type": "keyword"}}},
	        "source": {"properties": {"ip": {"type": "ip"}}}
	      }
	    }
	  }
	}`,
}

func installIndexTemplates(ctx context.Context, es esapi.Transport) error {
	for name, body := range indexTemplates {
		req := esapi.IndicesPutIndexTemplateRequest{
			Name: name,
			Body: strings.NewReader(body),
		}
		res, err := req.Do(ctx, es)
		if err != nil {
			return fmt.Errorf("putting index template %s: %w", name, err)
		}
		if res.IsError() {
			res.Body.Close()
			return fmt.Errorf("index template %s rejected: %s", name, res.String())
		}
		res.Body.Close()
		log.Info().Str("template", name).Msg("Installed index template")
	}
	return nil
}

// --- Meta-dictionary ---

type dictionaryEntry struct {
	Field       string   `json:"field"`
	Description string   `json:"description"`
	ValidValues []string `json:"valid_values"`
	Synonyms    []string `json:"synonyms"`
	Example     string   `json:"example"`
	Domain      string   `json:"domain"`
}

var dictionaryEntries = []dictionaryEntry{
	{
		Field:       "event.action",
		Description: "The action performed by the user or system",
		ValidValues: []string{"user_login", "user_logout", "password_reset", "app_launch", "transaction_view", "payment_initiated", "payment_completed"},
		Synonyms:    []string{"action", "operation", "event_type", "signin", "sign-in", "login"},
		Example:     "user_login",
		Domain:      "authentication",
	},
	{
		Field:       "event.outcome",
		Description: "The result of the event (success or failure)",
		ValidValues: []string{"success", "failure"},
		Synonyms:    []string{"result", "status", "outcome", "successful", "failed", "error"},
		Example:     "success",
		Domain:      "general",
	},
	{
		Field:       "app.channel",
		Description: "The application channel used",
		ValidValues: []string{"mobile", "online", "ivr"},
		Synonyms:    []string{"channel", "platform", "app_type", "mobile banking", "web", "internet banking"},
		Example:     "mobile",
		Domain:      "channels",
	},
}

// seedDictionary indexes the entries keyed by field name so reseeding
// overwrites instead of duplicating.
func seedDictionary(ctx context.Context, es esapi.Transport, index string) error {
	for _, entry := range dictionaryEntries {
		docJSON, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshaling dictionary entry %s: %w", entry.Field, err)
		}

		req := esapi.IndexRequest{
			Index:      index,
			DocumentID: entry.Field,
			Body:       strings.NewReader(string(docJSON)),
			Refresh:    "true",
		}
		res, err := req.Do(ctx, es)
		if err != nil {
			return fmt.Errorf("indexing dictionary entry %s: %w", entry.Field, err)
		}
		if res.IsError() {
			res.Body.Close()
			return fmt.Errorf("dictionary entry %s rejected: %s", entry.Field, res.String())
		}
		res.Body.Close()
	}
	log.Info().Int("entries", len(dictionaryEntries)).Str("index", index).Msg("Seeded meta-dictionary")
	return nil
}

// --- Synthetic events ---

func generateEvents(days, perDayOverride int) []model.BankingEvent {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var events []model.BankingEvent

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for d := 0; d < days; d++ {
		day := today.AddDate(0, 0, -d)
		events = append(events, generateAuthEvents(rng, day, countFor(rng, perDayOverride, 100, 200))...)
		events = append(events, generateMobileEvents(rng, day, countFor(rng, perDayOverride, 150, 300))...)
		events = append(events, generatePaymentEvents(rng, day, countFor(rng, perDayOverride, 50, 100))...)
	}
	return events
}

func generateAuthEvents(rng *rand.Rand, day time.Time, n int) []model.BankingEvent {
	events := make([]model.BankingEvent, 0, n)
	for i := 0; i < n; i++ {
		outcome := pick(rng, outcomes)
		event := model.BankingEvent{
			Timestamp: randomTimeInDay(rng, day),
			Event: model.EventInfo{
				Action:  pick(rng, authActions),
				Outcome: outcome,
				Dataset: "auth",
			},
			App: model.AppInfo{
				Channel: pick(rng, channels),
				Name:    "banking-app",
			},
			User:   &model.UserInfo{ID: randomUserID(rng)},
			Source: &model.SourceInfo{IP: randomIP(rng)},
			Device: &model.DeviceInfo{OS: &model.OSInfo{Name: pick(rng, deviceOSes)}},
			Geo:    &model.GeoInfo{CityName: pick(rng, cities)},
			Trace:  &model.TraceInfo{ID: fmt.Sprintf("trace_%06d", rng.Intn(900000)+100000)},
		}
		if outcome == "failure" {
			event.Event.Reason = pick(rng, failureReasons)
		}
		events = append(events, event)
	}
	return events
}

func generateMobileEvents(rng *rand.Rand, day time.Time, n int) []model.BankingEvent {
	events := make([]model.BankingEvent, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, model.BankingEvent{
			Timestamp: randomTimeInDay(rng, day),
			Event: model.EventInfo{
				Action:  pick(rng, mobileActions),
				Outcome: pick(rng, outcomes),
				Dataset: "mobile",
			},
			App: model.AppInfo{
				Channel: "mobile",
				Name:    "mobile-banking",
				Version: fmt.Sprintf("%d.%d.%d", rng.Intn(5)+1, rng.Intn(10), rng.Intn(10)),
			},
			User: &model.UserInfo{ID: randomUserID(rng)},
			Device: &model.DeviceInfo{
				OS:    &model.OSInfo{Name: pick(rng, []string{"iOS", "Android"})},
				Model: fmt.Sprintf("Device_%d", rng.Intn(100)+1),
			},
			Geo: &model.GeoInfo{CityName: pick(rng, cities)},
		})
	}
	return events
}

func generatePaymentEvents(rng *rand.Rand, day time.Time, n int) []model.BankingEvent {
	events := make([]model.BankingEvent, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, model.BankingEvent{
			Timestamp: randomTimeInDay(rng, day),
			Event: model.EventInfo{
				Action:  pick(rng, paymentActions),
				Outcome: pick(rng, outcomes),
				Dataset: "payment",
			},
			App: model.AppInfo{
				Channel: pick(rng, channels),
				Name:    "payment-service",
			},
			Transaction: &model.TransactionInfo{
				Amount:   float64(int(rng.Float64()*999000+1000)) / 100, // 10.00 - 10000.00
				Currency: "USD",
			},
			User:   &model.UserInfo{ID: randomUserID(rng)},
			Source: &model.SourceInfo{IP: randomIP(rng)},
		})
	}
	return events
}

func countFor(rng *rand.Rand, override, min, max int) int {
	if override > 0 {
		return override
	}
	return min + rng.Intn(max-min+1)
}

func randomTimeInDay(rng *rand.Rand, day time.Time) time.Time {
	return day.Add(time.Duration(rng.Intn(24))*time.Hour +
		time.Duration(rng.Intn(60))*time.Minute +
		time.Duration(rng.Intn(60))*time.Second)
}

func randomUserID(rng *rand.Rand) string {
	return fmt.Sprintf("user_%d", rng.Intn(9000)+1000)
}

func randomIP(rng *rand.Rand) string {
	return fmt.Sprintf("192.168.%d.%d", rng.Intn(255)+1, rng.Intn(255)+1)
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}
