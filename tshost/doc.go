// Package tshost describes the surface a host source-analysis service exposes to
// the dynpath plugin: module resolution, source file construction, file system
// access, project enumeration and logging.
//
// The plugin never talks to the host through anything else. Decorators in the
// other packages take one of the function types declared here and return a
// value of the same type that wraps it.
package tshost
