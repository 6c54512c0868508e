package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk JSON layout of the configuration file.
type StructuredJSONConfig struct {
	App struct {
		Environment string `json:"environment"`
		LogLevel    string `json:"log_level"`
		Version     string `json:"version"`
	} `json:"app,omitempty"`

	Cache struct {
		TTL             Duration `json:"ttl"`
		CleanupInterval Duration `json:"cleanup_interval"`
	} `json:"cache,omitempty"`

	Storage struct {
		Driver string `json:"driver"`
		DB     struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
		Firestore struct {
			ProjectID       string `json:"project_id"`
			CredentialsFile string `json:"credentials_file"`
		} `json:"firestore,omitempty"`
		FixturesPath string `json:"fixtures_path"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Environment: jsonCfg.App.Environment,
			LogLevel:    jsonCfg.App.LogLevel,
			Version:     jsonCfg.App.Version,
		},
		Cache: Cache{
			TTL:             time.Duration(jsonCfg.Cache.TTL),
			CleanupInterval: time.Duration(jsonCfg.Cache.CleanupInterval),
		},
		Storage: Storage{
			Driver: jsonCfg.Storage.Driver,
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Firestore: Firestore{
				ProjectID:       jsonCfg.Storage.Firestore.ProjectID,
				CredentialsFile: jsonCfg.Storage.Firestore.CredentialsFile,
			},
			FixturesPath: jsonCfg.Storage.FixturesPath,
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
