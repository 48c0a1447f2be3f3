package taxonomy

// countries maps each upper-case country name to its region. A name claimed
// by two regions is a duplicate map key and does not compile.
//
// Armenia, Azerbaijan, Georgia, Kazakhstan, Kyrgyzstan, Turkmenistan and
// Uzbekistan are listed under APAC only.
var countries = map[string]Region{
	// APAC
	"AFGHANISTAN":      APAC,
	"ARMENIA":          APAC,
	"AUSTRALIA":        APAC,
	"AZERBAIJAN":       APAC,
	"BANGLADESH":       APAC,
	"BHUTAN":           APAC,
	"BRUNEI":           APAC,
	"CAMBODIA":         APAC,
	"CHINA":            APAC,
	"EAST TIMOR":       APAC,
	"FIJI":             APAC,
	"GEORGIA":          APAC,
	"INDIA":            APAC,
	"INDONESIA":        APAC,
	"JAPAN":            APAC,
	"KAZAKHSTAN":       APAC,
	"KIRIBATI":         APAC,
	"KYRGYZSTAN":       APAC,
	"LAOS":             APAC,
	"MALAYSIA":         APAC,
	"MALDIVES":         APAC,
	"MARSHALL ISLANDS": APAC,
	"MICRONESIA":       APAC,
	"MONGOLIA":         APAC,
	"MYANMAR":          APAC,
	"NAURU":            APAC,
	"NEPAL":            APAC,
	"NEW ZEALAND":      APAC,
	"NORTH KOREA":      APAC,
	"PAKISTAN":         APAC,
	"PALAU":            APAC,
	"PAPUA NEW GUINEA": APAC,
	"PHILIPPINES":      APAC,
	"SAMOA":            APAC,
	"SINGAPORE":        APAC,
	"SOLOMON ISLANDS":  APAC,
	"SOUTH KOREA":      APAC,
	"SRI LANKA":        APAC,
	"TAIWAN":           APAC,
	"TAJIKISTAN":       APAC,
	"THAILAND":         APAC,
	"TONGA":            APAC,
	"TURKMENISTAN":     APAC,
	"TUVALU":           APAC,
	"UZBEKISTAN":       APAC,
	"VANUATU":          APAC,
	"VIETNAM":          APAC,

	// EMEA
	"ALBANIA":                          EMEA,
	"ANDORRA":                          EMEA,
	"AUSTRIA":                          EMEA,
	"BAHRAIN":                          EMEA,
	"BELARUS":                          EMEA,
	"BELGIUM":                          EMEA,
	"BENIN":                            EMEA,
	"BOSNIA AND HERZEGOVINA":           EMEA,
	"BOTSWANA":                         EMEA,
	"BULGARIA":                         EMEA,
	"BURKINA FASO":                     EMEA,
	"BURUNDI":                          EMEA,
	"CAMEROON":                         EMEA,
	"CAPE VERDE":                       EMEA,
	"CENTRAL AFRICAN REPUBLIC":         EMEA,
	"CHAD":                             EMEA,
	"COMOROS":                          EMEA,
	"CROATIA":                          EMEA,
	"CYPRUS":                           EMEA,
	"CZECH REPUBLIC":                   EMEA,
	"DEMOCRATIC REPUBLIC OF THE CONGO": EMEA,
	"DENMARK":                          EMEA,
	"DJIBOUTI":                         EMEA,
	"EGYPT":                            EMEA,
	"EQUATORIAL GUINEA":                EMEA,
	"ERITREA":                          EMEA,
	"ESTONIA":                          EMEA,
	"ESWATINI":                         EMEA,
	"ETHIOPIA":                         EMEA,
	"FAROE ISLANDS":                    EMEA,
	"FINLAND":                          EMEA,
	"FRANCE":                           EMEA,
	"GABON":                            EMEA,
	"GAMBIA":                           EMEA,
	"GERMANY":                          EMEA,
	"GHANA":                            EMEA,
	"GIBRALTAR":                        EMEA,
	"GREECE":                           EMEA,
	"GREENLAND":                        EMEA,
	"GUINEA":                           EMEA,
	"GUINEA-BISSAU":                    EMEA,
	"HUNGARY":                          EMEA,
	"ICELAND":                          EMEA,
	"IRAN":                             EMEA,
	"IRAQ":                             EMEA,
	"IRELAND":                          EMEA,
	"ISRAEL":                           EMEA,
	"ITALY":                            EMEA,
	"IVORY COAST":                      EMEA,
	"JORDAN":                           EMEA,
	"KENYA":                            EMEA,
	"KOSOVO":                           EMEA,
	"KUWAIT":                           EMEA,
	"LATVIA":                           EMEA,
	"LEBANON":                          EMEA,
	"LESOTHO":                          EMEA,
	"LIBERIA":                          EMEA,
	"LIBYA":                            EMEA,
	"LIECHTENSTEIN":                    EMEA,
	"LITHUANIA":                        EMEA,
	"LUXEMBOURG":                       EMEA,
	"MADAGASCAR":                       EMEA,
	"MALAWI":                           EMEA,
	"MALI":                             EMEA,
	"MALTA":                            EMEA,
	"MAURITANIA":                       EMEA,
	"MOLDOVA":                          EMEA,
	"MONACO":                           EMEA,
	"MONTENEGRO":                       EMEA,
	"MOROCCO":                          EMEA,
	"MOZAMBIQUE":                       EMEA,
	"NAMIBIA":                          EMEA,
	"NETHERLANDS":                      EMEA,
	"NIGER":                            EMEA,
	"NIGERIA":                          EMEA,
	"NORTH MACEDONIA":                  EMEA,
	"NORWAY":                           EMEA,
	"OMAN":                             EMEA,
	"PALESTINE":                        EMEA,
	"POLAND":                           EMEA,
	"PORTUGAL":                         EMEA,
	"QATAR":                            EMEA,
	"REPUBLIC OF THE CONGO":            EMEA,
	"ROMANIA":                          EMEA,
	"RUSSIA":                           EMEA,
	"RWANDA":                           EMEA,
	"SAN MARINO":                       EMEA,
	"SAUDI ARABIA":                     EMEA,
	"SENEGAL":                          EMEA,
	"SERBIA":                           EMEA,
	"SEYCHELLES":                       EMEA,
	"SIERRA LEONE":                     EMEA,
	"SLOVAKIA":                         EMEA,
	"SLOVENIA":                         EMEA,
	"SOMALIA":                          EMEA,
	"SOUTH AFRICA":                     EMEA,
	"SOUTH SUDAN":                      EMEA,
	"SPAIN":                            EMEA,
	"SUDAN":                            EMEA,
	"SWEDEN":                           EMEA,
	"SWITZERLAND":                      EMEA,
	"SYRIA":                            EMEA,
	"TANZANIA":                         EMEA,
	"TOGO":                             EMEA,
	"TUNISIA":                          EMEA,
	"TURKEY":                           EMEA,
	"UGANDA":                           EMEA,
	"UKRAINE":                          EMEA,
	"UNITED ARAB EMIRATES":             EMEA,
	"UNITED KINGDOM":                   EMEA,
	"VATICAN CITY":                     EMEA,
	"WESTERN SAHARA":                   EMEA,
	"YEMEN":                            EMEA,
	"ZAMBIA":                           EMEA,
	"ZIMBABWE":                         EMEA,

	// AMERICAS
	"ANTIGUA AND BARBUDA":              Americas,
	"ARGENTINA":                        Americas,
	"BAHAMAS":                          Americas,
	"BARBADOS":                         Americas,
	"BELIZE":                           Americas,
	"BOLIVIA":                          Americas,
	"BRAZIL":                           Americas,
	"CANADA":                           Americas,
	"CHILE":                            Americas,
	"COLOMBIA":                         Americas,
	"COSTA RICA":                       Americas,
	"CUBA":                             Americas,
	"DOMINICA":                         Americas,
	"DOMINICAN REPUBLIC":               Americas,
	"ECUADOR":                          Americas,
	"EL SALVADOR":                      Americas,
	"GRENADA":                          Americas,
	"GUATEMALA":                        Americas,
	"GUYANA":                           Americas,
	"HAITI":                            Americas,
	"HONDURAS":                         Americas,
	"JAMAICA":                          Americas,
	"MEXICO":                           Americas,
	"NICARAGUA":                        Americas,
	"PANAMA":                           Americas,
	"PARAGUAY":                         Americas,
	"PERU":                             Americas,
	"SAINT KITTS AND NEVIS":            Americas,
	"SAINT LUCIA":                      Americas,
	"SAINT VINCENT AND THE GRENADINES": Americas,
	"SURINAME":                         Americas,
	"TRINIDAD AND TOBAGO":              Americas,
	"UNITED STATES":                    Americas,
	"URUGUAY":                          Americas,
	"US":                               Americas,
	"VENEZUELA":                        Americas,
}
