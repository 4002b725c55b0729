package enum

type ErrorKind string

const (
	ErrorKindCredentialRejected ErrorKind = "credential_rejected"
	ErrorKindUpstream           ErrorKind = "upstream"
	ErrorKindUnreachable        ErrorKind = "unreachable"
	ErrorKindEnvelopeMalformed  ErrorKind = "envelope_malformed"
	ErrorKindUnsupported        ErrorKind = "unsupported"
	ErrorKindValidation         ErrorKind = "validation"
)

func (k ErrorKind) String() string {
	return string(k)
}
