// Package deviceconfig derives device-ready configuration documents
// from the inventory graph.
//
// The document covers channel encodings, source layouts, recorder
// settings, streaming URLs and names, and device metadata. Its key
// names and nesting are a stable contract consumed by provisioning
// tooling; see Builder.Build.
package deviceconfig
