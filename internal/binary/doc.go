// Package binary provisions and locates the smooai-log-viewer executable
// that the launcher wraps.
//
// # Layout
//
// Artifacts live inside the installed package tree, one per platform:
//
//	<package-root>/log-viewer/<os>-<arch>/smooai-log-viewer[.exe]
//
// # Acquisition Strategy
//
// Provisioning tries, in order, and stops at the first success:
//
// 1. Remote download (preferred)
//   - Fetches smooai-log-viewer-<os>-<arch>[.exe] from the latest (or a
//     pinned) GitHub release
//   - Optionally verifies an OpenPGP detached signature (<asset>.sig)
//   - Any failure is logged and falls through
//
// 2. Local build (fallback)
//   - Requires <project-root>/log-viewer/Cargo.toml and a working cargo
//   - Missing manifest or toolchain skips provisioning without an error
//   - A failing build is fatal and carries cargo's exit code
//
// Both strategies write through a temp file in the destination directory
// and rename it into place, so the artifact is always either the previous
// complete file or the new complete file.
//
// # Usage
//
//	p, err := binary.NewProvisioner(binary.Config{
//	    PackageRoot: pkgRoot,
//	    Project:     binary.Project{Root: projectRoot},
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := p.EnsureBinary(ctx, id)
//
// At run time the Locator resolves the same path without provisioning:
//
//	artifact, err := binary.NewLocator(pkgRoot).Locate(id)
//
// # Architecture
//
// The package is organized into several components:
//   - Provisioner: strategy ordering and result reporting
//   - Downloader: HTTP download with retry logic
//   - Verifier: OpenPGP detached signature verification
//   - Builder: toolchain probe and release build
//   - Locator: run-time path resolution
//   - Release: asset naming and URL construction
package binary
