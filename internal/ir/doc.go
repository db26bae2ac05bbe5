// Package ir provides the declaration and fact types shared by every stage of
// the modgen pipeline.
//
// This package contains type definitions only, plus canonical serialization.
// All other internal packages import ir; ir imports nothing internal. This
// keeps the fact model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Facts are plain values, produced independently per declaration
//   - Discovery order is preserved inside each fact stream, nothing else is ordered
//   - Grouped sequences handed to templates always use Grouping
//   - All JSON tags use snake_case
package ir
