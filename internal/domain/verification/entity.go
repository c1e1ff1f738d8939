package verification

// Method is a way an employee proves presence at clock time.
type Method string

const (
	MethodCode        Method = "code"
	MethodSelfie      Method = "selfie"
	MethodFingerprint Method = "fingerprint"
)

func (m Method) Valid() bool {
	return m == MethodCode || m == MethodSelfie || m == MethodFingerprint
}

// Requirements are the methods an organization accepts. At least one is always enabled.
type Requirements struct {
	RequireCode        bool `json:"require_code"`
	RequireSelfie      bool `json:"require_selfie"`
	RequireFingerprint bool `json:"require_fingerprint"`
}

// DefaultRequirements applies when no settings are stored or they cannot be read.
func DefaultRequirements() Requirements {
	return Requirements{RequireCode: true}
}

// Methods lists the enabled methods in presentation order.
func (r Requirements) Methods() []Method {
	methods := make([]Method, 0, 3)
	if r.RequireCode {
		methods = append(methods, MethodCode)
	}
	if r.RequireSelfie {
		methods = append(methods, MethodSelfie)
	}
	if r.RequireFingerprint {
		methods = append(methods, MethodFingerprint)
	}
	return methods
}

func (r Requirements) Allows(m Method) bool {
	switch m {
	case MethodCode:
		return r.RequireCode
	case MethodSelfie:
		return r.RequireSelfie
	case MethodFingerprint:
		return r.RequireFingerprint
	}
	return false
}

func (r Requirements) Empty() bool {
	return !r.RequireCode && !r.RequireSelfie && !r.RequireFingerprint
}

// Evidence carries whatever the chosen method needs.
type Evidence struct {
	Code              string
	Selfie            []byte
	SelfieFilename    string
	FingerprintSample string
}
