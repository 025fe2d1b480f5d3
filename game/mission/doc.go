// Package mission drives rovers across a plateau.
//
// It is the collaborator around the rover core:
//   - Parsing plateau, start state and instruction lines
//   - Holding one plateau grid and the rovers deployed on it, in order
//   - Running queued instructions and reporting final rover states
//   - Loading mission definitions from JSON or YAML files
//   - Rendering plateau snapshots for transports and persistence
//
// Input Format:
//
// The console reads the north-east corner of the plateau first, then pairs
// of lines describing each rover until a blank line:
//
//	5 5
//	1 2 N
//	LMLMLMLMM
//	3 3 E
//	MMRMMRMRRM
//
// and prints one "x y heading" line per rover once every rover has moved:
//
//	1 3 N
//	5 1 E
//
// Malformed lines are reported and read again.
package mission
