package domain

// Element vocabulary of the plugin XML. Tags are case-sensitive.
const (
	TagPlugin = "plugin"
	TagTES4   = "TES4"
	TagGRUP   = "GRUP"
	TagQUST   = "QUST"
	TagStruct = "struct"

	TagEDID = "EDID"
	TagFULL = "FULL"
	TagHEDR = "HEDR"
	TagCNAM = "CNAM"
	TagMAST = "MAST"
	TagDATA = "DATA"
	TagINTV = "INTV"
	TagDNAM = "DNAM"
	TagVMAD = "VMAD"
	TagANAM = "ANAM"
	TagNEXT = "NEXT"
	TagINDX = "INDX"
	TagQSDT = "QSDT"

	TagALST = "ALST"
	TagALID = "ALID"
	TagFNAM = "FNAM"
	TagALFR = "ALFR"
	TagVTCK = "VTCK"
	TagALED = "ALED"

	TagQOBJ = "QOBJ"
	TagNNAM = "NNAM"
	TagQSTA = "QSTA"
	TagCTDA = "CTDA"
)

// Fixed values written by the builder
const (
	DefaultPluginVersion = "0.7.4"
	DefaultHeaderVersion = "1.71000004"
	DefaultAuthor        = "DEFAULT"
	DefaultMaster        = "Skyrim.esm"

	PlayerRefName    = "PlayerRef"
	PlayerRefForm    = "00000014"
	PlayerAliasFlags = "0"
	TargetAliasFlags = "4242"
	VoiceSentinel    = "00000000"
	TargetFlags      = "0x00000000"
)

// QuestGroupLabel is the label of the group holding quest records
const QuestGroupLabel = TagQUST
