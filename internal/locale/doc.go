// Package locale provides the locale-dependent data of the wizard: the
// country dictionary, phone number shape checks backed by libphonenumber,
// the default country derived from the process locale, and display text for
// message keys.
package locale
