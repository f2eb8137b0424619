package utils

import "testing"

func TestExtractTransactionRef(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{
			name: "labeled utr",
			text: "Payment successful\nUTR: 316912345678\nTo: StudySpace",
			want: "316912345678",
		},
		{
			name: "upi ref no label",
			text: "₹1,500 paid\nUPI Ref No 425501987654",
			want: "425501987654",
		},
		{
			name: "txn id label with alphanumerics",
			text: "Txn ID: T2608HDFC91X2A4",
			want: "T2608HDFC91X2A4",
		},
		{
			name: "bare 12 digit fallback",
			text: "paid 500 to counter 316998765432 thanks",
			want: "316998765432",
		},
		{
			name: "lowercase label normalized",
			text: "utr 316912345678",
			want: "316912345678",
		},
		{
			name: "nothing plausible",
			text: "paid at the desk yesterday",
			want: "",
		},
		{
			name: "short digit runs ignored",
			text: "paid 1500 on 26/08/2026",
			want: "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractTransactionRef(tc.text); got != tc.want {
				t.Fatalf("ExtractTransactionRef(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}
