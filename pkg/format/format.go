// Package format decodes module (.risum) and preset (.risup, .risupreset)
// containers into plain value trees.
//
// Module container layout (all integers little-endian):
//
//	[magic: u8 = 111] [version: u8 = 0]
//	[mainLen: u32] [main: mainLen bytes]
//	repeated: [marker: u8] then, when marker == 1, [len: u32] [asset: len bytes]
//
// The main section passes through the compaction codec and is a UTF-8 JSON
// document {"type": "risuModule", "module": {...}}. Any marker other than 1
// ends the asset loop.
//
// A preset container is an opaque blob: compaction, then DEFLATE, then
// MessagePack. Wrappers tagged presetVersion 0 or 2 with type "preset"
// carry an AES-GCM encrypted MessagePack payload.
package format

const (
	// MagicRisum is the first byte of every module container.
	MagicRisum byte = 111
	// VersionRisum is the only supported module container version.
	VersionRisum byte = 0

	// AssetMarkerStop ends the asset loop.
	AssetMarkerStop byte = 0
	// AssetMarkerContinue introduces one length-prefixed asset.
	AssetMarkerContinue byte = 1

	// ModulePayloadType is the required "type" of a module main section.
	ModulePayloadType = "risuModule"
	// PresetWrapperType is the wrapper "type" that triggers decryption.
	PresetWrapperType = "preset"
)

// Format names reported in result metadata.
const (
	FormatRisum = "risum"
	FormatRisup = "risup"
)

// ciphertextFields lists where an encrypted preset may live, in lookup
// order. "pres" is the field name used by an older wrapper revision.
var ciphertextFields = []string{"preset", "pres"}

// encryptedPresetVersions are the presetVersion values that carry an
// encrypted payload.
var encryptedPresetVersions = []int64{0, 2}
