// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

/*
Package attachments reserves content-addressed storage slots for poll
documents and issues direct-upload credentials for them.

A slot is keyed by the URL-safe base64 SHA-256 of the poll id (or an
explicitly supplied id). The formatted poll id embeds the hash behind a
delimiter so a poll record permanently references its attachment slot.

Reservation and upload are decoupled on purpose: the service hands out a
15-minute signed PUT URL and a permanent public read URL, and never checks
whether the upload happened. Callers upload first, then create the poll
under the formatted id.
*/
package attachments
