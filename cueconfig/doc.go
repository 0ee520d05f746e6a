// Package cueconfig loads filter resolver configuration from CUE.
//
// Configuration is authored as a CUE struct:
//
//	columns: {
//		age:    {type: "numeric"}
//		name:   {type: "string"}
//		email:  {type: "string", nullable: true}
//	}
//	aliases: {
//		and: ["and", "&&"]
//		or:  "or"
//		not: "not"
//	}
//	limits: {
//		depth:    32
//		elements: 64
//	}
//
// Aliases and limits are optional: missing aliases fall back to the
// conventional and/or/not table, missing limits to the filter package
// defaults. The columns section is required.
package cueconfig
