package observability

import (
	"slices"
	"testing"

	"github.com/grafana/pyroscope-go"

	"github.com/riskibarqy/frogcrew/internal/config"
	"github.com/riskibarqy/frogcrew/internal/platform/logging"
)

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestProfileTags(t *testing.T) {
	tags := profileTags(config.Config{AppEnv: config.EnvProd, ServiceName: "frogcrew", StoreBackend: config.StoreSQLite})
	if tags["store"] != config.StoreSQLite || tags["env"] != config.EnvProd {
		t.Fatalf("unexpected tags %v", tags)
	}
	if _, ok := tags["version"]; ok {
		t.Fatalf("expected no version tag when unset")
	}

	tags = profileTags(config.Config{ServiceVersion: "1.2.0"})
	if tags["version"] != "1.2.0" {
		t.Fatalf("expected version tag, got %v", tags)
	}
}

func TestProfileTypes_IncludeContention(t *testing.T) {
	types := profileTypes()
	for _, want := range []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileMutexDuration, pyroscope.ProfileBlockDuration} {
		if !slices.Contains(types, want) {
			t.Fatalf("missing profile type %s", want)
		}
	}
}
