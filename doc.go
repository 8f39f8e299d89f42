// Package hostsdk is the host-side SDK for QuillKit editor extensions.
// It provides the handler registry and middleware chain through which WASM
// extension bundles call back into the host (logging, HTTP, blob
// resolution), plus the HTTP plumbing those host functions are built on.
//
// The composition engine itself lives in the kit package; bundle
// management in bundle; the WASM runtime in host and wazero.
package hostsdk
