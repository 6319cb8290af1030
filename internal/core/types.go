package core

// CaseID is the opaque string key identifying a case (spec §3 Case).
type CaseID string

// CaseType is a categorical code for a civil case class, e.g. "crp", "mvp".
// The taxonomy is injected via the parameter tables rather than fixed here.
type CaseType string

// Stage is a named position in the case lifecycle. The ordered stage
// vocabulary (including the terminal set) is supplied by the caller in
// params.Config.StageVocabulary; this package only names the stages every
// implementation of this spec must recognize structurally: the admission
// stage and the two terminal stages.
type Stage string

const (
	// StageAdmission is the initial admission stage consulted by the
	// ripeness classifier's "early admission" rule (spec §4.3 rule 2).
	StageAdmission Stage = "admission"
	// StageDisposed and StageFinalDisposal form the terminal set (spec §3).
	StageDisposed      Stage = "disposed"
	StageFinalDisposal Stage = "final-disposal"
)

// AdvancedStages is the "advanced_set" referenced by the readiness formula
// and the ripeness classifier's rule 4 (spec §4.2, §4.3).
var AdvancedStages = map[Stage]bool{
	"arguments":       true,
	"evidence":        true,
	"orders/judgment": true,
}

// TerminalStages is the stage set from which no further transitions are
// defined; reaching one disposes the case (spec §3, Glossary "Terminal stage").
var TerminalStages = map[Stage]bool{
	StageDisposed:      true,
	StageFinalDisposal: true,
}

// IsTerminal reports whether s is in the terminal set.
func IsTerminal(s Stage) bool {
	return TerminalStages[s]
}

// LifecycleStatus is the case's coarse status (spec §3).
type LifecycleStatus string

const (
	StatusPending   LifecycleStatus = "pending"
	StatusActive    LifecycleStatus = "active"
	StatusAdjourned LifecycleStatus = "adjourned"
	StatusScheduled LifecycleStatus = "scheduled"
	StatusDisposed  LifecycleStatus = "disposed"
)

// HearingOutcome is the result of a single hearing (spec §3 Hearing record).
type HearingOutcome string

const (
	OutcomeHeard     HearingOutcome = "heard"
	OutcomeAdjourned HearingOutcome = "adjourned"
	OutcomeDisposed  HearingOutcome = "disposed"
)

// HearingRecord is an immutable entry in a case's history (spec §3).
// Appended, never mutated.
type HearingRecord struct {
	Date        Date
	Outcome     HearingOutcome
	StageBefore Stage
	StageAfter  Stage
	CourtroomID string
}

// RipenessVerdict is the output of the ripeness classifier (spec §4.3).
type RipenessVerdict string

const (
	Ripe               RipenessVerdict = "ripe"
	UnripeSummons      RipenessVerdict = "unripe_summons"
	UnripeDependent    RipenessVerdict = "unripe_dependent"
	UnripeParty        RipenessVerdict = "unripe_party"
	UnripeDocument     RipenessVerdict = "unripe_document"
	UnripeUnknown      RipenessVerdict = "unknown"
)

// RipenessState is the case's cached ripeness assessment (spec §3).
type RipenessState struct {
	Verdict      RipenessVerdict
	Reason       string
	LastEvaluated Date
}

// IsRipe reports whether the verdict schedules the case for hearing.
func (r RipenessState) IsRipe() bool {
	return r.Verdict == Ripe
}
