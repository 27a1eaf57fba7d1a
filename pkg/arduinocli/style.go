// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package arduinocli

// clangStyle is the clang-format configuration applied to generated
// sketches. Written beside the sketch so clang-format's file: style
// reference resolves.
const clangStyle = `BasedOnStyle: Google
IndentWidth: 2
ColumnLimit: 100
AllowShortFunctionsOnASingleLine: Empty
SortIncludes: false
`
