package plugin

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Validate checks a candidate plugin root against its manifest and produces
// a compliance report. Errors abort the install before any store mutation;
// warnings flow into the stored report. A clean pass guarantees every
// component directory the host later resolves is confined to the root.
func Validate(root string, manifest *Manifest) (ComplianceReport, error) {
	report := EmptyComplianceReport()

	canonicalRoot, err := canonicalize(root)
	if err != nil {
		return report, wrapPath(err, root)
	}
	info, err := os.Stat(canonicalRoot)
	if err != nil || !info.IsDir() {
		report.Errors = append(report.Errors, "plugin root is not a directory")
		return report, nil
	}

	if strings.TrimSpace(manifest.Name) == "" ||
		strings.ContainsAny(manifest.Name, `/\`) {
		report.Errors = append(report.Errors, "plugin name is invalid")
	}

	for _, component := range Components {
		declared := manifest.ComponentPath(component)
		if declared == "" {
			fallback := filepath.Join(canonicalRoot, component.DefaultDirName())
			if pathExists(fallback) {
				canonicalCandidate, err := canonicalize(fallback)
				if err != nil {
					return report, wrapPath(err, fallback)
				}
				if !isWithin(canonicalRoot, canonicalCandidate) {
					report.Errors = append(report.Errors, fmt.Sprintf("path escapes plugin root: %s", fallback))
				}
			}
			continue
		}

		if filepath.IsAbs(declared) {
			report.Errors = append(report.Errors, fmt.Sprintf("path is absolute: %s", declared))
			continue
		}
		if hasParentSegment(declared) {
			report.Errors = append(report.Errors, fmt.Sprintf("path escapes plugin root: %s", declared))
			continue
		}

		candidate := filepath.Join(canonicalRoot, declared)
		if !pathExists(candidate) {
			report.Errors = append(report.Errors, fmt.Sprintf("component path missing: %s", declared))
			continue
		}

		canonicalCandidate, err := canonicalize(candidate)
		if err != nil {
			return report, wrapPath(err, candidate)
		}
		if !isWithin(canonicalRoot, canonicalCandidate) {
			report.Errors = append(report.Errors, fmt.Sprintf("path escapes plugin root: %s", declared))
		}
	}

	// WalkDir does not follow symlinks, so every symlinked entry shows up
	// exactly once.
	err = filepath.WalkDir(canonicalRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.Type()&fs.ModeSymlink != 0 {
			report.Errors = append(report.Errors, fmt.Sprintf("symlink not allowed: %s", path))
		}
		return nil
	})
	if err != nil {
		return report, wrapPath(err, canonicalRoot)
	}

	needsPolicyWarning := false

	hooksPath := manifest.ResolveComponentDir(canonicalRoot, ComponentHooks)
	if hooksPath == "" {
		fallback := filepath.Join(canonicalRoot, ComponentHooks.DefaultDirName())
		if pathExists(fallback) {
			hooksPath = fallback
		}
	}
	if hooksPath != "" {
		report.HooksDetected = true
		needsPolicyWarning = true
	}

	scriptsDetected := false
	err = filepath.WalkDir(canonicalRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() && d.Name() == "scripts" {
			scriptsDetected = true
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return report, wrapPath(err, canonicalRoot)
	}
	if scriptsDetected {
		report.ScriptsDetected = true
		needsPolicyWarning = true
	}

	if needsPolicyWarning {
		report.Warnings = append(report.Warnings, "hooks/scripts detected; policy required")
	} else if manifest.License == "" {
		report.Warnings = append(report.Warnings, "license missing; verify compliance")
	}

	return report, nil
}
