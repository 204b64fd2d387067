// Package pkg provides the core libraries for ClassCanvas diagram generation.
//
// # Overview
//
// ClassCanvas extracts class structure from source code and renders it as
// UML-style class diagrams. The pkg directory is organized into:
//
//  1. [scan] - Lexical scrubbing, brace matching, and statement splitting
//  2. [parsers] - Per-language structural parsers (TypeScript/JavaScript, C++, C#)
//  3. [model] - The class diagram model, relationship inference, inheritance propagation
//  4. [layout] - Hierarchical levels, ordering, positions, and orthogonal routing
//  5. [render] - PNG, SVG, and Graphviz DOT output
//  6. [pipeline] - Orchestration (parse → layout → render) with caching
//  7. [cache], [config], [errors], [observability] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Source files
//	     ↓ parsers (regex + state-machine scanning)
//	model.ClassDiagram
//	     ↓ layout (levels, ordering, positions, routes)
//	layout.Context + routes
//	     ↓ render
//	PNG / SVG / DOT / JSON
//
// The pipeline package ties the stages together and caches each one, so
// repeated renders of unchanged sources are cheap.
package pkg
