// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/beat-engine/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes matching plans to dir/index/export.yaml and returns the
// path. It supports the same filters as Retrieve.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	plans, err := s.exportPlans(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, indexDir, "export.yaml")
	data, err := yaml.Marshal(plans)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes matching plans to dir/index/export.json and returns the
// path. It supports the same filters as Retrieve.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	plans, err := s.exportPlans(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, indexDir, "export.json")
	data, err := json.MarshalIndent(plans, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportPlans(ctx context.Context, opts QueryOptions) ([]types.Plan, error) {
	opts.MaxResults = exportLimit
	plans, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if plans == nil {
		plans = []types.Plan{}
	}
	return plans, nil
}
