// Package netdiscovery watches for Android devices advertising ADB-over-
// network pairing via mDNS (service type "_adb-tls-connect._tcp") and
// turns service entries into connect candidates for the Core Manager's
// connectTcp helper (§4.6 of the device pool spec).
//
// Real devices running Android 11+ advertise this service once wireless
// debugging is enabled in Developer Options; the instance name encodes a
// pairing code unrelated to the serial the bridge later reports, so a
// Candidate carries only a host:port pair, not a device serial.
package netdiscovery
