//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName        = "pet-catalog-api"
	ConsumerName        = "adoption-portal"
	BackendProviderName = "pet-backend"

	StatePetsBaseline = "pets baseline"
	StatePetExists    = "pet with id 101 exists"
	StatePetMissing   = "no pet with id 404"

	StateBackendHasPets      = "backend lists pets"
	StateBackendRejectsPet   = "backend rejects pets without a name"
	StateBackendScoresExist  = "adopter 7 has compatibility scores"
	StateBackendPetAdoptable = "pet 101 can be adopted"
)

const (
	ExistingPetID int64 = 101
	MissingPetID  int64 = 404
	AdopterID     int64 = 7
)

const (
	examplePetName  = "Fluffy Pact Cat"
	exampleImageURL = "https://example.pact/pets/fluffy.png"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the pact file the portal publishes for the catalog API.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExamplePetPayload is the create payload the portal sends.
func ExamplePetPayload() map[string]any {
	return map[string]any{
		"name":   examplePetName,
		"type":   "cat",
		"images": []string{exampleImageURL},
		"tags":   []string{"Filhote", "Fêmea"},
	}
}

// ExampleBackendPet is a pet as the backend serializes it.
func ExampleBackendPet() map[string]any {
	return map[string]any{
		"id":       ExistingPetID,
		"nome":     examplePetName,
		"especie":  "GATO",
		"imagens":  []string{exampleImageURL},
		"vacinado": true,
		"castrado": false,
		"status":   "DISPONIVEL",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
