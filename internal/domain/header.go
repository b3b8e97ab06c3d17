package domain

// Field identifies a header control of the invoice form by its control id.
type Field string

const (
	FieldCompanyName    Field = "companyName"
	FieldCompanyAddress Field = "companyAddress"
	FieldCompanyPhone   Field = "companyPhone"
	FieldCompanyEmail   Field = "companyEmail"
	FieldClientName     Field = "clientName"
	FieldClientAddress  Field = "clientAddress"
	FieldClientPhone    Field = "clientPhone"
	FieldClientEmail    Field = "clientEmail"
	FieldInvoiceDate    Field = "invoiceDate"
	FieldDueDate        Field = "dueDate"
	FieldTaxRate        Field = "taxRate"
	FieldNotes          Field = "notes"
)

// FieldKind is the kind of form control backing a field.
type FieldKind int

const (
	KindText FieldKind = iota
	KindTextArea
	KindNumber
	KindDate
)

// FieldSpec describes one header control.
type FieldSpec struct {
	ID          Field
	Label       string
	Placeholder string
	Kind        FieldKind
	// Default is substituted when the control is empty or missing.
	Default string
}

// HeaderFields lists every header control in form order. It is the single
// lookup for labels and empty-value defaults.
var HeaderFields = []FieldSpec{
	{ID: FieldCompanyName, Label: "Nama Perusahaan *", Placeholder: "PT. Nama Perusahaan", Kind: KindText, Default: "Nama Perusahaan"},
	{ID: FieldCompanyPhone, Label: "Telepon", Placeholder: "021-1234567", Kind: KindText},
	{ID: FieldCompanyAddress, Label: "Alamat", Placeholder: "Alamat lengkap perusahaan", Kind: KindTextArea},
	{ID: FieldCompanyEmail, Label: "Email", Placeholder: "info@perusahaan.com", Kind: KindText},
	{ID: FieldClientName, Label: "Nama Klien *", Placeholder: "Nama klien atau perusahaan", Kind: KindText, Default: "Nama Klien"},
	{ID: FieldClientPhone, Label: "Telepon", Placeholder: "081234567890", Kind: KindText},
	{ID: FieldClientAddress, Label: "Alamat", Placeholder: "Alamat lengkap klien", Kind: KindTextArea},
	{ID: FieldClientEmail, Label: "Email", Placeholder: "klien@email.com", Kind: KindText},
	{ID: FieldInvoiceDate, Label: "Tanggal Faktur *", Placeholder: "YYYY-MM-DD", Kind: KindDate},
	{ID: FieldDueDate, Label: "Tanggal Jatuh Tempo", Placeholder: "YYYY-MM-DD", Kind: KindDate},
	{ID: FieldTaxRate, Label: "Pajak (%)", Placeholder: "11", Kind: KindNumber},
	{ID: FieldNotes, Label: "Catatan (Opsional)", Placeholder: "Tambahkan catatan atau syarat pembayaran", Kind: KindTextArea},
}

// Spec returns the FieldSpec for id.
func Spec(id Field) (FieldSpec, bool) {
	for _, s := range HeaderFields {
		if s.ID == id {
			return s, true
		}
	}
	return FieldSpec{}, false
}

// DefaultFor returns the value substituted for an empty id.
func DefaultFor(id Field) string {
	s, _ := Spec(id)
	return s.Default
}

// Header is a resolved snapshot of the header controls, defaults applied.
type Header struct {
	CompanyName    string
	CompanyAddress string
	CompanyPhone   string
	CompanyEmail   string
	ClientName     string
	ClientAddress  string
	ClientPhone    string
	ClientEmail    string
	InvoiceDate    string
	DueDate        string
	TaxRate        string
	Notes          string
}

// ResolveHeader reads every header field through read, substituting the
// field default when read reports the value missing or empty.
func ResolveHeader(read func(Field) (string, bool)) Header {
	get := func(id Field) string {
		if read != nil {
			if v, ok := read(id); ok && v != "" {
				return v
			}
		}
		return DefaultFor(id)
	}
	return Header{
		CompanyName:    get(FieldCompanyName),
		CompanyAddress: get(FieldCompanyAddress),
		CompanyPhone:   get(FieldCompanyPhone),
		CompanyEmail:   get(FieldCompanyEmail),
		ClientName:     get(FieldClientName),
		ClientAddress:  get(FieldClientAddress),
		ClientPhone:    get(FieldClientPhone),
		ClientEmail:    get(FieldClientEmail),
		InvoiceDate:    get(FieldInvoiceDate),
		DueDate:        get(FieldDueDate),
		TaxRate:        get(FieldTaxRate),
		Notes:          get(FieldNotes),
	}
}
