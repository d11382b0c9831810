// api/schemas/schemas.go
package schemas

import "time"

// FormPurpose is the closed label set assigned to a form or trigger.
type FormPurpose string

const (
	PurposeRegistration FormPurpose = "registration"
	PurposeLogin        FormPurpose = "login"
	PurposeContact      FormPurpose = "contact"
	PurposeSearch       FormPurpose = "search"
	PurposeSubscription FormPurpose = "subscription"
	PurposeUnknown      FormPurpose = "unknown"
)

// ClassificationResult pairs a purpose label with a confidence score in [0,1].
type ClassificationResult struct {
	Purpose    FormPurpose `json:"purpose"`
	Confidence float64     `json:"confidence"`
}

// FieldDescriptor describes a single input, select or textarea inside a form.
type FieldDescriptor struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder"`
	Value       string `json:"value"`
}

// ButtonDescriptor describes a button or submit input inside a form.
type ButtonDescriptor struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// FormDescriptor is the renderer's view of one form on a page.
// Index is 1-based and stable within a single snapshot; it is never reused
// across navigations.
type FormDescriptor struct {
	Index      int               `json:"index"`
	Action     string            `json:"action"`
	Method     string            `json:"method"`
	Fields     []FieldDescriptor `json:"inputs"`
	Buttons    []ButtonDescriptor `json:"buttons"`
	CSSClasses string            `json:"classes"`
	FormText   string            `json:"form_text"`
	NearbyText string            `json:"nearby_text"`
}

// PageSnapshot is the immutable result of one navigation. It is produced by
// the renderer and consumed by every classifier stage; a failed navigation
// still yields an empty-but-valid snapshot with the failure in Errors.
type PageSnapshot struct {
	URL             string            `json:"url"`
	Title           string            `json:"title"`
	TextContent     string            `json:"content"`
	Links           []string          `json:"links"`
	Images          []string          `json:"images"`
	Forms           []FormDescriptor  `json:"forms"`
	MetaTags        map[string]string `json:"meta_tags"`
	StatusCode      int               `json:"status_code,omitempty"`
	LoadTimeSeconds float64           `json:"load_time,omitempty"`
	Errors          []string          `json:"errors"`
}

// TriggerDescriptor is a logical description of a clickable element collected
// from the page. It is not bound to a live renderer handle; the resolver turns
// it into concrete selectors on demand.
type TriggerDescriptor struct {
	Text       string `json:"text"`
	AriaLabel  string `json:"aria_label"`
	DataTestID string `json:"data_testid"`
	ClassName  string `json:"class_name"`
	ID         string `json:"id"`
	TagName    string `json:"tag_name"`
	Href       string `json:"href,omitempty"`
}

// ClickStrategy identifies which click escalation tier succeeded.
type ClickStrategy string

const (
	ClickNormal   ClickStrategy = "normal"
	ClickForced   ClickStrategy = "forced"
	ClickScripted ClickStrategy = "scripted"
)

// ResolutionOutcome reports how (and whether) a trigger was resolved to a
// successful click.
type ResolutionOutcome struct {
	StrategyUsed    ClickStrategy `json:"strategy_used,omitempty"`
	SelectorMatched string        `json:"selector_matched,omitempty"`
	Success         bool          `json:"success"`
}

// FlowState enumerates the states of the modal interaction state machine.
// Closed is both the initial state and the successful terminal state; Failed
// is the other terminal state.
type FlowState string

const (
	FlowClosed         FlowState = "Closed"
	FlowTriggerClicked FlowState = "TriggerClicked"
	FlowModalOpen      FlowState = "ModalOpen"
	FlowModeSwitched   FlowState = "ModeSwitched"
	FlowFormFilled     FlowState = "FormFilled"
	FlowSubmitted      FlowState = "Submitted"
	FlowFailed         FlowState = "Failed"
)

// AuthForm is a discovered authentication form together with how it was found.
// SourceURL is either a real page URL or the sentinel "modal_window".
type AuthForm struct {
	Form          FormDescriptor `json:"form"`
	Purpose       FormPurpose    `json:"purpose"`
	Confidence    float64        `json:"confidence"`
	SourceURL     string         `json:"source_url,omitempty"`
	TriggerButton string         `json:"trigger_button,omitempty"`
	SwitchButton  string         `json:"switch_button,omitempty"`
}

// ModalSourceURL is the sentinel SourceURL for forms discovered inside an
// overlay rather than on a navigable page.
const ModalSourceURL = "modal_window"

// FilledField records one successfully filled form field. ValuePreview is
// truncated so credentials never land in the report verbatim.
type FilledField struct {
	Field        string `json:"field"`
	Type         string `json:"type"`
	ValuePreview string `json:"value"`
}

// FillResult aggregates the outcome of filling one form. Individual field
// errors are collected here and never abort the remaining fields.
type FillResult struct {
	Success      bool          `json:"success"`
	FilledFields []FilledField `json:"filled_fields"`
	Errors       []string      `json:"errors"`
}

// SubmitResult captures the observable consequences of a form submission.
// Absence of a recognizable success phrase is reported as Success=false with
// an explanatory ResponseAnalysis, never as an error.
type SubmitResult struct {
	Success           bool   `json:"success"`
	URLChanged        bool   `json:"url_changed"`
	NewURL            string `json:"new_url,omitempty"`
	HasSuccessMessage bool   `json:"has_success_message"`
	HasErrorMessage   bool   `json:"has_error_message"`
	ResponseAnalysis  string `json:"response_analysis,omitempty"`
	Error             string `json:"error,omitempty"`
}

// RegistrationAttempt is one persona's pass at a registration form.
type RegistrationAttempt struct {
	Persona       string            `json:"persona"`
	FormURL       string            `json:"form_url"`
	TriggerButton string            `json:"trigger_button,omitempty"`
	SwitchButton  string            `json:"switch_button,omitempty"`
	TestData      map[string]string `json:"test_data"`
	FillResult    FillResult        `json:"fill_result"`
	SubmitResult  SubmitResult      `json:"submit_result"`
	Timestamp     time.Time         `json:"timestamp"`
}

// FormInteraction records the generic fill pass over one discovered form.
type FormInteraction struct {
	FormIndex    int               `json:"form_index"`
	Purpose      FormPurpose       `json:"purpose"`
	InputsCount  int               `json:"inputs_count"`
	FillResult   FillResult        `json:"fill_result"`
	TestDataUsed map[string]string `json:"test_data_used"`
}

// HiddenElement is a sampled element hidden via style or attribute.
type HiddenElement struct {
	Tag     string `json:"tag"`
	ID      string `json:"id"`
	Class   string `json:"class"`
	Content string `json:"content"`
}

// DataAttribute is one sampled data-* attribute.
type DataAttribute struct {
	Element   string `json:"element"`
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
}

// HiddenFinding is one category of hidden functionality surfaced during the
// hidden-functionality stage. Type is one of hidden_elements, html_comments,
// data_attributes or error.
type HiddenFinding struct {
	Type       string          `json:"type"`
	Count      int             `json:"count,omitempty"`
	Elements   []HiddenElement `json:"elements,omitempty"`
	Comments   []string        `json:"comments,omitempty"`
	Attributes []DataAttribute `json:"attributes,omitempty"`
	Message    string          `json:"message,omitempty"`
}

// FlowLink is a link surfaced while tracing a user flow.
type FlowLink struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// UserFlow is the result of tracing one outgoing link one hop deep.
type UserFlow struct {
	StartURL      string             `json:"start_url"`
	PageTitle     string             `json:"page_title"`
	Buttons       []ButtonDescriptor `json:"buttons"`
	Links         []FlowLink         `json:"links"`
	DepthExplored int                `json:"depth_explored"`
}

// Security finding types emitted by the security stage.
const (
	FindingMissingSecurityHeaders = "missing_security_headers"
	FindingFormsWithoutCSRF       = "forms_without_csrf"
	FindingSecurityAnalysisError  = "security_analysis_error"
)

// SecurityFinding is one entry in the security stage output. The populated
// fields depend on Type.
type SecurityFinding struct {
	Type     string   `json:"type"`
	Severity string   `json:"severity,omitempty"`
	Headers  []string `json:"headers,omitempty"`
	Count    int      `json:"count,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// PerformanceMetrics holds raw navigation-timing numbers collected in-page.
type PerformanceMetrics struct {
	PageLoadTimeMs       float64 `json:"page_load_time"`
	DOMContentLoadedMs   float64 `json:"dom_content_loaded"`
	ResourcesCount       int     `json:"resources_count"`
	LargestResourceBytes int64   `json:"largest_resource"`
}

// PerformanceInsights wraps the metrics with advisory recommendations.
type PerformanceInsights struct {
	Metrics         PerformanceMetrics `json:"metrics"`
	Analysis        string             `json:"analysis,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
	Error           string             `json:"error,omitempty"`
}

// ExplorationReport is the aggregate of one exploration run. Every count
// field is derived from the length of its backing collection at assembly
// time; AuthFormsDiscovered in particular must equal the number of auth forms
// discovered even though the raw list is not re-emitted at top level.
type ExplorationReport struct {
	URL                  string                `json:"url"`
	Timestamp            time.Time             `json:"timestamp"`
	ExplorationDepth     int                   `json:"exploration_depth"`
	DiscoveredPages      []string              `json:"discovered_pages"`
	RegistrationAttempts []RegistrationAttempt `json:"registration_attempts"`
	FormInteractions     []FormInteraction     `json:"form_interactions"`
	HiddenFunctionality  []HiddenFinding       `json:"hidden_functionality"`
	UserFlows            []UserFlow            `json:"user_flows"`
	SecurityFindings     []SecurityFinding     `json:"security_findings"`
	AccessibilityIssues  []string              `json:"accessibility_issues"`
	PerformanceInsights  PerformanceInsights   `json:"performance_insights"`
	MainPageAnalysis     map[string]any        `json:"main_page_analysis"`
	AuthFormsDiscovered  int                   `json:"auth_forms_discovered"`
}
