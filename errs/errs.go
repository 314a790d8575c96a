// Package errs names the error taxonomy RTCM3 decoding can surface,
// per spec.md §7. All are frame-local: none corrupt the control record,
// and the framer always resumes at its idle state after any of them.
package errs

import "errors"

var (
	// ErrFramingShort: the frame's declared length field is smaller than
	// the content actually required to parse it.
	ErrFramingShort = errors.New("rtcm3: frame length field too short for content")

	// ErrCrcMismatch: the CRC-24Q trailer does not match the computed
	// checksum over the header and payload.
	ErrCrcMismatch = errors.New("rtcm3: crc-24q mismatch")

	// ErrUnknownType: the message type is a supported bit layout but not
	// one this decoder implements.
	ErrUnknownType = errors.New("rtcm3: unsupported message type")

	// ErrInvalidSatellite: the PRN/slot number decoded is outside its
	// system's valid range.
	ErrInvalidSatellite = errors.New("rtcm3: prn outside system range")

	// ErrInvalidSignal: an MSM signal id has no entry in the system's
	// signal table.
	ErrInvalidSignal = errors.New("rtcm3: unrecognized msm signal id")

	// ErrStaleEphemeris: the decoded ephemeris carries the same issue of
	// data as the one already stored.
	ErrStaleEphemeris = errors.New("rtcm3: ephemeris issue-of-data unchanged")

	// ErrStationMismatch: the frame's station id differs from the one
	// already observed in the current, non-terminated batch.
	ErrStationMismatch = errors.New("rtcm3: station id changed mid-batch")
)
